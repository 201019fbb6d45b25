package demo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mrlokans/dbcentral/internal/database"
	"github.com/mrlokans/dbcentral/internal/database/authors"
	"github.com/mrlokans/dbcentral/internal/database/books"
	"github.com/mrlokans/dbcentral/internal/entities"
)

// Walkthrough exercises every repository operation against m and narrates
// the results to w. It expects an empty database.
func Walkthrough(ctx context.Context, w io.Writer, m *database.Manager) error {
	authorsRepo := authors.NewRepository(m)
	booksRepo := books.NewRepository(m)
	bookRecords := database.NewRepository[entities.Book](m)

	section(w, "1. Create")
	jane, err := authorsRepo.Create(ctx, "Jane Doe", "jane@example.com")
	if err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	fmt.Fprintf(w, "Created author %q (ID: %d)\n", jane.Name, jane.ID)

	book, err := booksRepo.Create(ctx, "T", "C", jane.ID)
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	fmt.Fprintf(w, "Created book %q (ID: %d, author ID: %d)\n", book.Title, book.ID, book.AuthorID)

	seeded, err := NewSeeder(m).Seed(ctx, Classics())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Seeded %d authors and %d books\n", seeded.AuthorsCreated, seeded.BooksCreated)

	section(w, "2. Read")
	found, err := bookRecords.FindBy(ctx, database.Filters{"author_id": jane.ID})
	if err != nil {
		return fmt.Errorf("find books: %w", err)
	}
	for _, b := range found {
		fmt.Fprintf(w, "Book by author %d: %q\n", jane.ID, b.Title)
	}

	all, err := authorsRepo.List(ctx, 0)
	if err != nil {
		return fmt.Errorf("list authors: %w", err)
	}
	fmt.Fprintf(w, "Found %d authors total\n", len(all))

	matches, err := booksRepo.Search(ctx, "mystery")
	if err != nil {
		return fmt.Errorf("search books: %w", err)
	}
	fmt.Fprintf(w, "Search for \"mystery\" matched %d book(s)\n", len(matches))

	section(w, "3. Update")
	jane, err = authorsRepo.UpdateEmail(ctx, jane.ID, "jane.doe@example.com")
	if err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	fmt.Fprintf(w, "Updated email to %s\n", jane.Email)

	section(w, "4. Validation and errors")
	_, err = authorsRepo.Create(ctx, "   ", "blank@example.com")
	reportExpected(w, "Blank name", err)
	_, err = authorsRepo.Create(ctx, "Impostor", "jane.doe@example.com")
	reportExpected(w, "Duplicate email", err)
	_, err = booksRepo.Create(ctx, "Orphan", "No author", 9999)
	reportExpected(w, "Book for missing author", err)

	missing, err := authorsRepo.Get(ctx, 9999)
	if err != nil {
		return fmt.Errorf("get missing author: %w", err)
	}
	fmt.Fprintf(w, "Lookup of author 9999 returned nothing: %t\n", missing == nil)

	section(w, "5. Delete")
	deleted, err := authorsRepo.Delete(ctx, jane.ID)
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	fmt.Fprintf(w, "Deleted author %d: %t\n", jane.ID, deleted)

	remaining, err := booksRepo.CountByAuthor(ctx, jane.ID)
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	fmt.Fprintf(w, "Books left for author %d after cascade: %d\n", jane.ID, remaining)

	again, err := authorsRepo.Delete(ctx, jane.ID)
	if err != nil {
		return fmt.Errorf("delete author again: %w", err)
	}
	fmt.Fprintf(w, "Deleting author %d again removed a row: %t\n", jane.ID, again)

	section(w, "6. Stats")
	stats, err := m.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	fmt.Fprintf(w, "Database contains %d authors and %d books\n", stats.Authors, stats.Books)
	return nil
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
	for range title {
		fmt.Fprint(w, "=")
	}
	fmt.Fprintln(w)
}

func reportExpected(w io.Writer, label string, err error) {
	var verr *database.ValidationError
	switch {
	case err == nil:
		fmt.Fprintf(w, "%s: unexpectedly succeeded\n", label)
	case errors.As(err, &verr):
		fmt.Fprintf(w, "%s rejected: %s %s\n", label, verr.Field, verr.Reason)
	default:
		fmt.Fprintf(w, "%s rejected (%s): %v\n", label, database.Kind(err), err)
	}
}
