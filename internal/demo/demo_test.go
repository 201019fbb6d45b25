package demo

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/dbcentral/internal/database"
)

func setupTestDB(t *testing.T) (*database.Manager, func()) {
	t.Helper()
	m, err := database.NewMemory(database.Config{
		RetryDelay: -1,
		Logger:     logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return m, func() { m.Close() }
}

func TestSeeder_Seed(t *testing.T) {
	m, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	result, err := NewSeeder(m).Seed(ctx, Library())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{AuthorsCreated: 3, BooksCreated: 6}, result)

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Authors)
	assert.Equal(t, int64(6), stats.Books)
}

func TestSeeder_SeedTwiceSkipsExisting(t *testing.T) {
	m, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	seeder := NewSeeder(m)

	_, err := seeder.Seed(ctx, Library())
	require.NoError(t, err)

	result, err := seeder.Seed(ctx, Library())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{AuthorsSkipped: 3}, result)

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.Books)
}

func TestSeeder_InvalidSample(t *testing.T) {
	m, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewSeeder(m).Seed(context.Background(), []SampleAuthor{{Name: "Nameless", Email: "not-an-email"}})
	assert.ErrorIs(t, err, database.ErrValidation)
}

func TestWalkthrough(t *testing.T) {
	m, cleanup := setupTestDB(t)
	defer cleanup()

	var out bytes.Buffer
	require.NoError(t, Walkthrough(context.Background(), &out, m))

	text := out.String()
	assert.Contains(t, text, `Created author "Jane Doe" (ID: 1)`)
	assert.Contains(t, text, `Created book "T" (ID: 1, author ID: 1)`)
	assert.Contains(t, text, `Book by author 1: "T"`)
	assert.Contains(t, text, "Found 4 authors total")
	assert.Contains(t, text, `Search for "mystery" matched 1 book(s)`)
	assert.Contains(t, text, "Updated email to jane.doe@example.com")
	assert.Contains(t, text, "Blank name rejected: name cannot be empty")
	assert.Contains(t, text, "Duplicate email rejected: email")
	assert.Contains(t, text, "Book for missing author rejected (not_found)")
	assert.Contains(t, text, "Lookup of author 9999 returned nothing: true")
	assert.Contains(t, text, "Deleted author 1: true")
	assert.Contains(t, text, "Books left for author 1 after cascade: 0")
	assert.Contains(t, text, "Deleting author 1 again removed a row: false")
	assert.Contains(t, text, "Database contains 3 authors and 3 books")
}
