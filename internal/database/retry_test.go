package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/dbcentral/internal/entities"
)

func errBadConn() error {
	return driver.ErrBadConn
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes map[string][]string
	retries  map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{outcomes: map[string][]string{}, retries: map[string]int{}}
}

func (r *fakeRecorder) ObserveOperation(op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[op] = append(r.outcomes[op], outcome)
}

func (r *fakeRecorder) ObserveRetry(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retries[op]++
}

func setupRecordedDB(t *testing.T, maxRetries int) (*Manager, *fakeRecorder) {
	t.Helper()
	rec := newFakeRecorder()
	m, err := NewMemory(Config{
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
		Recorder:   rec,
		Logger:     logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m, rec
}

func TestDo_SucceedsBelowRetryLimit(t *testing.T) {
	m, rec := setupRecordedDB(t, 3)

	calls := 0
	err := m.Do(context.Background(), "flaky", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errBadConn()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, rec.retries["flaky"])
	assert.Equal(t, []string{"ok"}, rec.outcomes["flaky"])
}

func TestDo_ExhaustsRetries(t *testing.T) {
	m, rec := setupRecordedDB(t, 3)

	calls := 0
	err := m.Do(context.Background(), "down", func(ctx context.Context) error {
		calls++
		return errBadConn()
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, driver.ErrBadConn)
	assert.Contains(t, err.Error(), "gave up after 3 attempts")
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, rec.retries["down"])
	assert.Equal(t, []string{"connection"}, rec.outcomes["down"])
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	m, rec := setupRecordedDB(t, 5)

	errBoom := errors.New("syntax error")
	calls := 0
	err := m.Do(context.Background(), "broken", func(ctx context.Context) error {
		calls++
		return errBoom
	})
	assert.Equal(t, errBoom, err)
	assert.Equal(t, 1, calls)
	assert.Zero(t, rec.retries["broken"])
}

func TestDo_ValidationNotRetried(t *testing.T) {
	m, _ := setupRecordedDB(t, 5)

	calls := 0
	err := m.Do(context.Background(), "invalid", func(ctx context.Context) error {
		calls++
		return invalid("name", "cannot be empty")
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, calls)
}

func TestDo_StopsWhenContextCanceled(t *testing.T) {
	rec := newFakeRecorder()
	m, err := NewMemory(Config{
		MaxRetries: 5,
		RetryDelay: time.Hour,
		Recorder:   rec,
		Logger:     logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err = m.Do(ctx, "slow", func(ctx context.Context) error {
		calls++
		cancel()
		return errBadConn()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, driver.ErrBadConn)
}

func TestRepository_RetriesTransientInsertFailure(t *testing.T) {
	m, rec := setupRecordedDB(t, 3)
	ctx := context.Background()

	failures := 2
	err := m.DB().Callback().Create().Before("gorm:create").Register("test:flaky", func(db *gorm.DB) {
		if failures > 0 {
			failures--
			db.AddError(errBadConn())
		}
	})
	require.NoError(t, err)

	repo := NewRepository[entities.Author](m)
	author := &entities.Author{Name: "Jane Doe", Email: "jane@example.com"}
	require.NoError(t, repo.Create(ctx, author))
	assert.NotZero(t, author.ID)
	assert.Equal(t, 2, rec.retries["authors.create"])

	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRepository_TransientInsertFailureExhausts(t *testing.T) {
	m, _ := setupRecordedDB(t, 2)
	ctx := context.Background()

	err := m.DB().Callback().Create().Before("gorm:create").Register("test:down", func(db *gorm.DB) {
		db.AddError(errBadConn())
	})
	require.NoError(t, err)

	repo := NewRepository[entities.Author](m)
	err = repo.Create(ctx, &entities.Author{Name: "Jane Doe", Email: "jane@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)

	require.NoError(t, m.DB().Callback().Create().Remove("test:down"))
	n, err := repo.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
