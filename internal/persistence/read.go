package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ReadRepository provides filtered, read-only access to one entity table.
// Every query it issues carries the is_deleted = FALSE predicate; there is
// no bypass. Returned values are snapshots; mutations only take effect
// through a WriteRepository and a unit-of-work commit.
type ReadRepository[T any] struct {
	db    *sqlx.DB
	table Table
}

func NewReadRepository[T any](db *sqlx.DB, table Table) *ReadRepository[T] {
	return &ReadRepository[T]{db: db, table: table}
}

// ByID fetches one live record. Returns ErrNotFound when the id is absent
// or the record has been soft deleted.
func (r *ReadRepository[T]) ByID(ctx context.Context, id uuid.UUID) (*T, error) {
	entity := new(T)
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1 AND is_deleted = FALSE", r.table.Name)

	err := r.db.GetContext(ctx, entity, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// All fetches every live record. The result set is unbounded; callers are
// responsible for limiting.
func (r *ReadRepository[T]) All(ctx context.Context) ([]T, error) {
	var entities []T
	query := fmt.Sprintf("SELECT * FROM %s WHERE is_deleted = FALSE", r.table.Name)

	err := r.db.SelectContext(ctx, &entities, query)
	if err != nil {
		return nil, err
	}

	return entities, nil
}

// Find fetches live records matching cond, a SQL boolean expression over the
// table's columns with $1-style placeholders. An optional trailing ORDER BY
// is allowed inside cond since the soft-delete predicate is prepended.
func (r *ReadRepository[T]) Find(ctx context.Context, cond string, args ...any) ([]T, error) {
	var entities []T
	query := fmt.Sprintf("SELECT * FROM %s WHERE is_deleted = FALSE AND %s", r.table.Name, cond)

	err := r.db.SelectContext(ctx, &entities, query, args...)
	if err != nil {
		return nil, err
	}

	return entities, nil
}

// Exists reports whether any live record matches cond.
func (r *ReadRepository[T]) Exists(ctx context.Context, cond string, args ...any) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE is_deleted = FALSE AND %s)", r.table.Name, cond)

	err := r.db.GetContext(ctx, &exists, query, args...)
	return exists, err
}

// Count returns the number of live records matching cond.
func (r *ReadRepository[T]) Count(ctx context.Context, cond string, args ...any) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE is_deleted = FALSE AND %s", r.table.Name, cond)

	err := r.db.GetContext(ctx, &count, query, args...)
	return count, err
}
