package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrlokans/dbcentral/internal/database"
)

// MigrateCommand applies pending migrations or reverts the last one.
type MigrateCommand struct {
	app      *App
	Rollback bool
}

func NewMigrateCommand(app *App) *MigrateCommand {
	return &MigrateCommand{app: app}
}

func (c *MigrateCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&c.Rollback, "rollback", false, "revert the most recent migration instead")
	return cmd
}

func (c *MigrateCommand) Run(_ context.Context, w io.Writer) error {
	cfg := c.app.databaseConfig()
	cfg.SkipMigrations = true
	m, err := database.New(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if c.Rollback {
		if err := m.Rollback(); err != nil {
			return err
		}
		fmt.Fprintln(w, "Rolled back the last migration")
		return nil
	}

	if err := m.Migrate(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Schema is up to date (%d migrations known)\n", len(database.MigrationIDs()))
	return nil
}
