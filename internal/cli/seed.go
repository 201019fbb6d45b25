package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrlokans/dbcentral/internal/demo"
)

// SeedCommand loads the sample library into the configured database.
type SeedCommand struct {
	app      *App
	Classics bool
}

func NewSeedCommand(app *App) *SeedCommand {
	return &SeedCommand{app: app}
}

func (c *SeedCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample authors and books",
		Long:  "Insert the sample authors and books. Authors whose email already exists are skipped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&c.Classics, "classics", false, "also insert the classics data set")
	return cmd
}

func (c *SeedCommand) Run(ctx context.Context, w io.Writer) error {
	m, err := c.app.open()
	if err != nil {
		return err
	}
	defer m.Close()

	samples := demo.Library()
	if c.Classics {
		samples = append(samples, demo.Classics()...)
	}

	result, err := demo.NewSeeder(m).Seed(ctx, samples)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Seeded %d authors and %d books (%d authors already present)\n",
		result.AuthorsCreated, result.BooksCreated, result.AuthorsSkipped)
	return nil
}
