package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mrlokans/dbcentral/internal/database"
	"github.com/mrlokans/dbcentral/internal/demo"
	"github.com/mrlokans/dbcentral/internal/metrics"
)

// DemoCommand runs the guided walkthrough against a throwaway in-memory database.
type DemoCommand struct {
	app     *App
	Metrics bool
}

func NewDemoCommand(app *App) *DemoCommand {
	return &DemoCommand{app: app}
}

func (c *DemoCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through every operation on an in-memory database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&c.Metrics, "metrics", false, "print the collected Prometheus metrics afterwards")
	return cmd
}

func (c *DemoCommand) Run(ctx context.Context, w io.Writer) error {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}

	cfg := c.app.databaseConfig()
	cfg.Recorder = collector
	cfg.SkipMigrations = false

	m, err := database.NewMemory(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	fmt.Fprintln(w, "dbcentral demo")
	fmt.Fprintln(w, "==============")
	if err := demo.Walkthrough(ctx, w, m); err != nil {
		return err
	}

	if c.Metrics {
		fmt.Fprintln(w)
		return metrics.WriteText(w, reg)
	}
	return nil
}
