package authors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/dbcentral/internal/database"
	"github.com/mrlokans/dbcentral/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *database.Manager, func()) {
	t.Helper()
	m, err := database.NewMemory(database.Config{
		RetryDelay: -1,
		Logger:     logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	cleanup := func() {
		m.Close()
	}
	return NewRepository(m), m, cleanup
}

func TestRepository_Create(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	author, err := repo.Create(context.Background(), " Jane Doe ", "jane@example.com")
	require.NoError(t, err)
	assert.NotZero(t, author.ID)
	assert.Equal(t, "Jane Doe", author.Name)
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	_, err := repo.Create(ctx, "Jane Doe", "jane@example.com")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "Another Jane", " jane@example.com ")
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrValidation)

	var verr *database.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Field)
	assert.Contains(t, verr.Reason, "already exists")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRepository_Create_InvalidEmail(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Create(context.Background(), "Jane Doe", "jane.example.com")
	assert.ErrorIs(t, err, database.ErrValidation)
}

func TestRepository_Lookups(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	jane, err := repo.Create(ctx, "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "John Roe", "john@example.com")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Janet Poe", "janet@example.com")
	require.NoError(t, err)

	got, err := repo.Get(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)

	byEmail, err := repo.FindByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "John Roe", byEmail.Name)

	missing, err := repo.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byName, err := repo.FindByName(ctx, "Jane Doe")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, jane.ID, byName[0].ID)

	matches, err := repo.SearchByName(ctx, "JAN")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Jane Doe", matches[0].Name)
	assert.Equal(t, "Janet Poe", matches[1].Name)

	_, err = repo.SearchByName(ctx, "  ")
	assert.ErrorIs(t, err, database.ErrValidation)

	all, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_UpdateEmail(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	jane, err := repo.Create(ctx, "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	john, err := repo.Create(ctx, "John Roe", "john@example.com")
	require.NoError(t, err)

	updated, err := repo.UpdateEmail(ctx, jane.ID, "jane.doe@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", updated.Email)

	// Re-saving the same address is allowed
	_, err = repo.UpdateEmail(ctx, jane.ID, "jane.doe@example.com")
	require.NoError(t, err)

	_, err = repo.UpdateEmail(ctx, john.ID, "jane.doe@example.com")
	assert.ErrorIs(t, err, database.ErrValidation)

	_, err = repo.UpdateEmail(ctx, 999, "ghost@example.com")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_Rename(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	jane, err := repo.Create(ctx, "Jane Doe", "jane@example.com")
	require.NoError(t, err)

	renamed, err := repo.Rename(ctx, jane.ID, "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", renamed.Name)

	_, err = repo.Rename(ctx, jane.ID, "")
	assert.ErrorIs(t, err, database.ErrValidation)

	_, err = repo.Rename(ctx, 999, "Ghost")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_WithBooksAndCascade(t *testing.T) {
	repo, m, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	jane, err := repo.Create(ctx, "Jane Doe", "jane@example.com")
	require.NoError(t, err)

	books := database.NewRepository[entities.Book](m)
	require.NoError(t, books.Create(ctx, &entities.Book{Title: "Second", Content: "B", AuthorID: jane.ID}))
	require.NoError(t, books.Create(ctx, &entities.Book{Title: "First", Content: "A", AuthorID: jane.ID}))

	withBooks, err := repo.WithBooks(ctx, jane.ID)
	require.NoError(t, err)
	require.NotNil(t, withBooks)
	require.Len(t, withBooks.Books, 2)
	assert.Equal(t, "Second", withBooks.Books[0].Title)
	assert.Equal(t, "First", withBooks.Books[1].Title)

	deleted, err := repo.Delete(ctx, jane.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	remaining, err := books.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, remaining)

	gone, err := repo.WithBooks(ctx, jane.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
