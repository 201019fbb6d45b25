package demo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/dbcentral/internal/database"
	"github.com/mrlokans/dbcentral/internal/database/authors"
	"github.com/mrlokans/dbcentral/internal/database/books"
)

// SeedResult counts what Seed wrote.
type SeedResult struct {
	AuthorsCreated int
	AuthorsSkipped int
	BooksCreated   int
}

// Seeder writes sample data through the regular repositories.
type Seeder struct {
	authors *authors.Repository
	books   *books.Repository
}

func NewSeeder(m *database.Manager) *Seeder {
	return &Seeder{
		authors: authors.NewRepository(m),
		books:   books.NewRepository(m),
	}
}

// Seed creates every sample author and their books. Authors whose email is
// already stored are skipped along with their books, so seeding twice is
// harmless.
func (s *Seeder) Seed(ctx context.Context, samples []SampleAuthor) (SeedResult, error) {
	var result SeedResult
	for _, sample := range samples {
		existing, err := s.authors.FindByEmail(ctx, sample.Email)
		if err != nil {
			return result, fmt.Errorf("look up %s: %w", sample.Email, err)
		}
		if existing != nil {
			log.Debug().Str("email", sample.Email).Msg("Author already seeded")
			result.AuthorsSkipped++
			continue
		}

		author, err := s.authors.Create(ctx, sample.Name, sample.Email)
		if err != nil {
			return result, fmt.Errorf("create author %s: %w", sample.Name, err)
		}
		result.AuthorsCreated++

		for _, b := range sample.Books {
			if _, err := s.books.Create(ctx, b.Title, b.Content, author.ID); err != nil {
				return result, fmt.Errorf("create book %q: %w", b.Title, err)
			}
			result.BooksCreated++
		}
		log.Info().
			Str("author", author.Name).
			Int("books", len(sample.Books)).
			Msg("Seeded author")
	}
	return result, nil
}
