package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrlokans/dbcentral/internal/database/authors"
	"github.com/mrlokans/dbcentral/internal/database/books"
)

// SearchCommand finds books by title or content, or authors by name.
type SearchCommand struct {
	app     *App
	Authors bool
}

func NewSearchCommand(app *App) *SearchCommand {
	return &SearchCommand{app: app}
}

func (c *SearchCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Case-insensitive search over books or author names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
	cmd.Flags().BoolVar(&c.Authors, "authors", false, "search author names instead of books")
	return cmd
}

func (c *SearchCommand) Run(ctx context.Context, w io.Writer, query string) error {
	m, err := c.app.open()
	if err != nil {
		return err
	}
	defer m.Close()

	if c.Authors {
		found, err := authors.NewRepository(m).SearchByName(ctx, query)
		if err != nil {
			return err
		}
		return renderAuthors(w, found)
	}

	found, err := books.NewRepository(m).Search(ctx, query)
	if err != nil {
		return err
	}
	return renderBooks(w, found)
}
