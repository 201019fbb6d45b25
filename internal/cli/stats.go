package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// StatsCommand prints row counts and pool figures.
type StatsCommand struct {
	app *App
}

func NewStatsCommand(app *App) *StatsCommand {
	return &StatsCommand{app: app}
}

func (c *StatsCommand) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (c *StatsCommand) Run(ctx context.Context, w io.Writer) error {
	m, err := c.app.open()
	if err != nil {
		return err
	}
	defer m.Close()

	stats, err := m.Stats(ctx)
	if err != nil {
		return err
	}

	return renderTable(w, []string{"Property", "Value"}, [][]string{
		{"Engine", string(stats.Engine)},
		{"Authors", fmt.Sprint(stats.Authors)},
		{"Books", fmt.Sprint(stats.Books)},
		{"Open connections", fmt.Sprint(stats.OpenConnections)},
		{"In use", fmt.Sprint(stats.InUse)},
		{"Idle", fmt.Sprint(stats.Idle)},
	})
}
