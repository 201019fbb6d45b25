package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// WithSession runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back when fn returns an error or panics, so no
// partial write survives a failed operation. Returned errors are classified
// into the package error kinds.
func (m *Manager) WithSession(ctx context.Context, fn func(tx *gorm.DB) error) (err error) {
	if err := m.ensureOpen(); err != nil {
		return err
	}

	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return classify("begin transaction", tx.Error)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warn().Err(rbErr).Msg("Rollback failed")
		}
		if r := recover(); r != nil {
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		log.Debug().Err(err).Msg("Rolling back transaction")
		return classify("transaction", err)
	}

	if err := tx.Commit().Error; err != nil {
		return classify("commit", err)
	}
	committed = true
	return nil
}

// Run combines Do and WithSession: fn runs in its own transaction and the
// whole transaction is retried on transient failures.
func (m *Manager) Run(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	return m.Do(ctx, op, func(ctx context.Context) error {
		if err := m.WithSession(ctx, fn); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
}
