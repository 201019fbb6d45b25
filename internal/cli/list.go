package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrlokans/dbcentral/internal/database/authors"
	"github.com/mrlokans/dbcentral/internal/database/books"
	"github.com/mrlokans/dbcentral/internal/entities"
)

const timeLayout = "2006-01-02 15:04"

// AuthorsCommand lists authors.
type AuthorsCommand struct {
	app   *App
	Limit int
}

func NewAuthorsCommand(app *App) *AuthorsCommand {
	return &AuthorsCommand{app: app}
}

func (c *AuthorsCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authors",
		Short: "List authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&c.Limit, "limit", 0, "maximum number of authors to show (0 for all)")
	return cmd
}

func (c *AuthorsCommand) Run(ctx context.Context, w io.Writer) error {
	m, err := c.app.open()
	if err != nil {
		return err
	}
	defer m.Close()

	list, err := authors.NewRepository(m).List(ctx, c.Limit)
	if err != nil {
		return err
	}
	return renderAuthors(w, list)
}

// BooksCommand lists books, optionally for one author.
type BooksCommand struct {
	app      *App
	Limit    int
	AuthorID uint
}

func NewBooksCommand(app *App) *BooksCommand {
	return &BooksCommand{app: app}
}

func (c *BooksCommand) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&c.Limit, "limit", 0, "maximum number of books to show (0 for all)")
	cmd.Flags().UintVar(&c.AuthorID, "author", 0, "only show books by this author ID")
	return cmd
}

func (c *BooksCommand) Run(ctx context.Context, w io.Writer) error {
	m, err := c.app.open()
	if err != nil {
		return err
	}
	defer m.Close()

	repo := books.NewRepository(m)
	var list []entities.Book
	if c.AuthorID != 0 {
		list, err = repo.ByAuthor(ctx, c.AuthorID)
	} else {
		list, err = repo.List(ctx, c.Limit)
	}
	if err != nil {
		return err
	}
	if c.Limit > 0 && len(list) > c.Limit {
		list = list[:c.Limit]
	}
	return renderBooks(w, list)
}

func renderAuthors(w io.Writer, list []entities.Author) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "No authors found")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		rows = append(rows, []string{fmt.Sprint(a.ID), a.Name, a.Email, a.CreatedAt.Format(timeLayout)})
	}
	return renderTable(w, []string{"ID", "Name", "Email", "Created"}, rows)
}

func renderBooks(w io.Writer, list []entities.Book) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "No books found")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, b := range list {
		rows = append(rows, []string{fmt.Sprint(b.ID), b.Title, fmt.Sprint(b.AuthorID), preview(b.Content)})
	}
	return renderTable(w, []string{"ID", "Title", "Author ID", "Content"}, rows)
}
