package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// UnitOfWork runs fn inside one transaction. Repositories built from the
// DBTX passed to fn share that transaction, so a mood entry and the profile
// update it implies, or a whole catalog import, land together or not at all.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

type SQLiteUnitOfWork struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteUnitOfWork wraps db. A nil logger discards rollback logs.
func NewSQLiteUnitOfWork(db *sql.DB, logger *slog.Logger) *SQLiteUnitOfWork {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteUnitOfWork{db: db, logger: logger}
}

// WithinTx commits when fn returns nil and rolls back on error or panic.
// A panic is re-raised after the rollback. fn's error is returned as is so
// callers can still match repository sentinels with errors.Is.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			u.logger.ErrorContext(ctx, "transaction rolled back after panic", "panic", fmt.Sprint(p))
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			u.logger.ErrorContext(ctx, "transaction rollback failed", "error", rbErr, "cause", err)
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		u.logger.WarnContext(ctx, "transaction rolled back", "cause", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
