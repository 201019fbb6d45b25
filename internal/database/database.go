package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/dbcentral/internal/logging"
)

const (
	DefaultMaxRetries   = 3
	DefaultRetryDelay   = time.Second
	DefaultMaxOpenConns = 10
)

// Config controls how the Manager connects and retries.
type Config struct {
	// URL identifies engine, credentials, host and database. Empty means DefaultURL.
	URL string
	// Echo logs every SQL statement.
	Echo bool
	// MaxRetries is the total number of attempts made for an operation that
	// keeps failing transiently. Values below 1 mean DefaultMaxRetries.
	MaxRetries int
	// RetryDelay is the fixed pause between attempts. Zero means DefaultRetryDelay.
	RetryDelay time.Duration
	// MaxOpenConns caps the pool for server engines. SQLite always uses one connection.
	MaxOpenConns int
	// SkipMigrations leaves the schema untouched on startup.
	SkipMigrations bool
	// Recorder receives operation and retry observations. Optional.
	Recorder Recorder
	// Logger overrides the zerolog-backed GORM logger. Optional.
	Logger logger.Interface
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.MaxRetries < 1 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.Recorder == nil {
		c.Recorder = nopRecorder{}
	}
	if c.Logger == nil {
		c.Logger = logging.NewGormLogger(c.Echo)
	}
	return c
}

// Manager is the entry point for all database access. It owns the GORM
// connection, runs migrations, and wraps every operation in a transaction
// scope and a bounded retry loop.
type Manager struct {
	cfg    Config
	target Target
	db     *gorm.DB
	sqlDB  *sql.DB

	schemas sync.Map

	mu     sync.RWMutex
	closed bool
}

// New connects to cfg.URL, retrying up to cfg.MaxRetries times, and applies
// pending migrations unless cfg.SkipMigrations is set.
func New(cfg Config) (*Manager, error) {
	cfg = cfg.withDefaults()

	target, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	m := &Manager{cfg: cfg, target: target}
	if err := m.connect(context.Background()); err != nil {
		return nil, err
	}

	if !cfg.SkipMigrations {
		if err := m.Migrate(); err != nil {
			_ = m.Close()
			return nil, err
		}
	}

	log.Info().
		Str("url", redactURL(cfg.URL)).
		Str("engine", string(target.Engine)).
		Bool("in_memory", target.InMemory()).
		Msg("Database initialized")

	return m, nil
}

// NewMemory returns a Manager backed by a private in-memory SQLite database.
func NewMemory(cfg Config) (*Manager, error) {
	cfg.URL = MemoryURL
	return New(cfg)
}

// NewFile returns a Manager backed by the SQLite file at path.
func NewFile(path string, cfg Config) (*Manager, error) {
	cfg.URL = "sqlite:///" + path
	return New(cfg)
}

// connect opens the pool through the shared retry loop. Every open failure
// is retried since the engine may still be starting.
func (m *Manager) connect(ctx context.Context) error {
	start := time.Now()
	exhausted, err := m.retry(ctx, "connect", func(error) bool { return true }, m.open)
	if exhausted {
		log.Error().
			Err(err).
			Int("attempts", m.cfg.MaxRetries).
			Str("url", redactURL(m.cfg.URL)).
			Msg("Could not connect to database")
		err = fmt.Errorf("%w: failed to connect to database after %d attempts: %w", ErrConnection, m.cfg.MaxRetries, err)
	}
	m.cfg.Recorder.ObserveOperation("connect", Kind(err), time.Since(start))
	return err
}

func (m *Manager) open(ctx context.Context) error {
	db, err := gorm.Open(m.target.Dialector(), &gorm.Config{
		Logger:         m.cfg.Logger,
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if m.target.Engine == EngineSQLite {
		// One connection keeps an in-memory database alive for the lifetime
		// of the manager and matches SQLite's single-writer model.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(m.cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(max(m.cfg.MaxOpenConns/2, 1))
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return err
	}

	m.db = db
	m.sqlDB = sqlDB
	return nil
}

// DB exposes the underlying GORM handle for queries the Manager does not
// cover. Calls made through it bypass retries and error classification.
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Engine returns the engine the Manager is connected to.
func (m *Manager) Engine() Engine {
	return m.target.Engine
}

// Config returns the effective configuration after defaults were applied.
func (m *Manager) Config() Config {
	return m.cfg
}

// Ping checks that the engine is reachable, retrying transient failures.
func (m *Manager) Ping(ctx context.Context) error {
	return m.Do(ctx, "ping", func(ctx context.Context) error {
		if err := m.ensureOpen(); err != nil {
			return err
		}
		return classify("ping", m.sqlDB.PingContext(ctx))
	})
}

// Close releases the connection pool. It is safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.sqlDB == nil {
		m.closed = true
		return nil
	}
	m.closed = true
	log.Debug().Str("url", redactURL(m.cfg.URL)).Msg("Closing database")
	return m.sqlDB.Close()
}

func (m *Manager) ensureOpen() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("%w: manager is closed", ErrConnection)
	}
	return nil
}
