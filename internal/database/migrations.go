package database

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mrlokans/dbcentral/internal/entities"
)

const authorTitleIndex = "idx_books_author_title"

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		// 001: authors and books with the cascading foreign key from struct tags
		{
			ID: "001_authors_books",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&entities.Author{}, &entities.Book{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("books", "authors")
			},
		},

		// 002: lookups of an author's books by title
		{
			ID: "002_books_author_title_index",
			Migrate: func(tx *gorm.DB) error {
				if tx.Migrator().HasIndex("books", authorTitleIndex) {
					return nil
				}
				return tx.Exec("CREATE INDEX " + authorTitleIndex + " ON books (author_id, title)").Error
			},
			Rollback: func(tx *gorm.DB) error {
				if !tx.Migrator().HasIndex("books", authorTitleIndex) {
					return nil
				}
				return tx.Migrator().DropIndex("books", authorTitleIndex)
			},
		},
	}
}

// MigrationIDs lists every known migration in the order they are applied.
func MigrationIDs() []string {
	all := migrations()
	ids := make([]string, len(all))
	for i, mig := range all {
		ids[i] = mig.ID
	}
	return ids
}

func (m *Manager) migrator() *gormigrate.Gormigrate {
	return gormigrate.New(m.db, gormigrate.DefaultOptions, migrations())
}

// Migrate applies every pending migration.
func (m *Manager) Migrate() error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	if err := m.migrator().Migrate(); err != nil {
		return classify("migrate", fmt.Errorf("run migrations: %w", err))
	}
	log.Debug().Strs("migrations", MigrationIDs()).Msg("Schema up to date")
	return nil
}

// Rollback reverts the most recently applied migration.
func (m *Manager) Rollback() error {
	if err := m.ensureOpen(); err != nil {
		return err
	}
	if err := m.migrator().RollbackLast(); err != nil {
		return classify("rollback", fmt.Errorf("rollback migration: %w", err))
	}
	log.Info().Msg("Rolled back last migration")
	return nil
}
