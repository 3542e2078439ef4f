package repository

import (
	"context"

	"github.com/Laisky/zap"
	"github.com/jackc/pgx/v5"

	"github.com/Taichi-iskw/contentrepo/internal/log"
)

// WithTx runs fn inside a transaction. Any error from fn rolls the transaction
// back and is returned unchanged.
func WithTx(ctx context.Context, pool Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return HandlePostgreSQLError(err, "failed to begin transaction")
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Logger.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return HandlePostgreSQLError(err, "failed to commit transaction")
	}
	return nil
}
