package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/roach88/peerexam/internal/querysql"
	"github.com/roach88/peerexam/internal/record"
)

// Insert adds a row and returns the surrogate id the database assigned.
//
// SQLite reports the id through LastInsertId; PostgreSQL through
// INSERT ... RETURNING id.
func (s *SQLStore) Insert(ctx context.Context, table string, fields record.Fields) (id int64, err error) {
	defer s.metrics.observe(table, opInsert, time.Now(), &err)

	query, params, err := s.compiler.Insert(table, fields)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}

	if s.dialect.ReturningID {
		if err := s.q.QueryRowContext(ctx, query, params...).Scan(&id); err != nil {
			return 0, fmt.Errorf("insert %s: %w", table, err)
		}
	} else {
		result, err := s.q.ExecContext(ctx, query, params...)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", table, err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("insert %s: last insert id: %w", table, err)
		}
	}

	slog.Debug("row inserted", "table", table, "id", id)
	return id, nil
}

// Update overwrites the given columns of one row.
// Updating a row that does not exist is an error.
func (s *SQLStore) Update(ctx context.Context, table string, id int64, fields record.Fields) (err error) {
	defer s.metrics.observe(table, opUpdate, time.Now(), &err)

	query, params, err := s.compiler.Update(table, id, fields)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	result, err := s.q.ExecContext(ctx, query, params...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: rows affected: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s: no row with id %d", table, id)
	}

	slog.Debug("row updated", "table", table, "id", id)
	return nil
}

// Atomic runs fn inside one transaction.
//
// On SQLite the transaction starts with BEGIN IMMEDIATE and the pool holds a
// single connection, so Atomic callers are fully serialized and lockKey only
// labels the log line. On PostgreSQL the transaction first takes
// pg_advisory_xact_lock on a hash of lockKey, which is released at commit or
// rollback.
//
// A nested Atomic on the transaction-scoped Store joins the outer
// transaction.
func (s *SQLStore) Atomic(ctx context.Context, lockKey string, fn func(ctx context.Context, tx Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("atomic %s: begin tx: %w", lockKey, err)
	}
	defer tx.Rollback() // No-op if committed

	if s.dialect == querysql.Postgres {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryLockID(lockKey)); err != nil {
			return fmt.Errorf("atomic %s: advisory lock: %w", lockKey, err)
		}
	}

	scoped := &SQLStore{
		db:       s.db,
		q:        tx,
		tx:       tx,
		dialect:  s.dialect,
		compiler: s.compiler,
		metrics:  s.metrics,
	}
	if err := fn(ctx, scoped); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("atomic %s: commit: %w", lockKey, err)
	}
	return nil
}

// advisoryLockID maps a lock key onto PostgreSQL's signed 64-bit lock space.
func advisoryLockID(lockKey string) int64 {
	return int64(xxhash.Sum64String(lockKey))
}
