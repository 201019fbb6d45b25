package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/dbcentral/internal/database"
)

func testDatabaseURL(t *testing.T) string {
	t.Helper()
	return "sqlite:///" + filepath.Join(t.TempDir(), "library.db")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DATABASE_RETRY_DELAY", "1ms")

	var out bytes.Buffer
	root := NewRootCommand("test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dbcentral test\n", out)
}

func TestSeedStatsAndList(t *testing.T) {
	url := testDatabaseURL(t)

	out, err := execute(t, "--db", url, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 3 authors and 6 books (0 authors already present)")

	out, err = execute(t, "--db", url, "seed", "--classics")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 3 authors and 3 books (3 authors already present)")

	out, err = execute(t, "--db", url, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")
	assert.Contains(t, out, "Authors")
	assert.Contains(t, out, "9")

	out, err = execute(t, "--db", url, "authors", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Dr. Sillypants")
	assert.Contains(t, out, "Captain Quirk")
	assert.NotContains(t, out, "Professor Wobble")

	out, err = execute(t, "--db", url, "books", "--author", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "The Adventures of Sillypants")
	assert.Contains(t, out, "Sillypants Strikes Again")
	assert.NotContains(t, out, "Wobble")
}

func TestSearch(t *testing.T) {
	url := testDatabaseURL(t)
	_, err := execute(t, "--db", url, "seed")
	require.NoError(t, err)

	out, err := execute(t, "--db", url, "search", "WACKY")
	require.NoError(t, err)
	assert.Contains(t, out, "Wobble's Wacky World")
	assert.Contains(t, out, "The Adventures of Sillypants")

	out, err = execute(t, "--db", url, "search", "--authors", "quirk")
	require.NoError(t, err)
	assert.Contains(t, out, "Captain Quirk")

	out, err = execute(t, "--db", url, "search", "submarine")
	require.NoError(t, err)
	assert.Contains(t, out, "No books found")

	_, err = execute(t, "--db", url, "search", " ")
	assert.ErrorIs(t, err, database.ErrValidation)
}

func TestDemo(t *testing.T) {
	out, err := execute(t, "demo", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "Books left for author 1 after cascade: 0")
	assert.Contains(t, out, `dbcentral_operations_total{operation="authors.create",outcome="ok"}`)
	assert.Contains(t, out, "dbcentral_operation_duration_seconds")
}

func TestMigrate(t *testing.T) {
	url := testDatabaseURL(t)

	out, err := execute(t, "--db", url, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date (2 migrations known)")

	out, err = execute(t, "--db", url, "migrate", "--rollback")
	require.NoError(t, err)
	assert.Contains(t, out, "Rolled back the last migration")
}

func TestUnsupportedDatabase(t *testing.T) {
	_, err := execute(t, "--db", "oracle://scott@db/orcl", "stats")
	assert.ErrorIs(t, err, database.ErrConnection)
}
