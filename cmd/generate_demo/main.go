// Command generate_demo creates a demo database filled with the sample library.
// Usage: go run ./cmd/generate_demo [--db path/to/demo.db] [--classics]
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/mrlokans/dbcentral/internal/config"
	"github.com/mrlokans/dbcentral/internal/database"
	"github.com/mrlokans/dbcentral/internal/demo"
	"github.com/mrlokans/dbcentral/internal/logging"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	classics := flag.Bool("classics", false, "also include the classics data set")
	flag.Parse()

	logging.Apply(config.NewConfig().Log)

	if err := run(context.Background(), *dbPath, *classics); err != nil {
		log.Error().Err(err).Msg("Failed to generate demo database")
		os.Exit(1)
	}
}

func run(ctx context.Context, dbPath string, classics bool) error {
	log.Info().Str("path", dbPath).Msg("Generating demo database")

	// Start from an empty file every time
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing demo database: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create demo directory: %w", err)
	}

	m, err := database.NewFile(dbPath, database.Config{})
	if err != nil {
		return err
	}
	defer m.Close()

	samples := demo.Library()
	if classics {
		samples = append(samples, demo.Classics()...)
	}

	result, err := demo.NewSeeder(m).Seed(ctx, samples)
	if err != nil {
		return fmt.Errorf("seed demo database: %w", err)
	}

	log.Info().
		Int("authors", result.AuthorsCreated).
		Int("books", result.BooksCreated).
		Msg("Demo database generated successfully")
	return nil
}
