package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type opKind int

const (
	opAdd opKind = iota + 1
	opUpdate
	opSoftDelete
)

// operation is one staged write: the entity, what to do with it, and for
// soft deletes the acting user.
type operation struct {
	kind   opKind
	table  Table
	entity Auditable
	actor  *uuid.UUID
}

// UnitOfWork batches staged writes from any number of write repositories
// into one atomic commit. An instance is scoped to a single logical
// operation (one request) and must not be shared across requests.
//
// Audit stamping happens inside Commit, in the same transaction as the
// business writes: added entities get created_at (and created_by from the
// actor), updated entities get modified_at/modified_by, and soft deletes
// get is_deleted/deleted_at/deleted_by. A failed commit applies nothing.
type UnitOfWork struct {
	db    *sqlx.DB
	actor *uuid.UUID
	ops   []operation
}

// NewUnitOfWork creates a request-scoped unit of work. actor identifies the
// current user for created_by/modified_by stamps; pass nil when unknown.
func NewUnitOfWork(db *sqlx.DB, actor *uuid.UUID) *UnitOfWork {
	return &UnitOfWork{db: db, actor: actor}
}

func (u *UnitOfWork) stage(op operation) {
	u.ops = append(u.ops, op)
}

// Commit persists every staged operation in one transaction and returns the
// number of affected rows. All-or-nothing: any failure rolls back the whole
// batch and the staged list is kept so the caller may retry or abort.
func (u *UnitOfWork) Commit(ctx context.Context) (int64, error) {
	if len(u.ops) == 0 {
		return 0, nil
	}

	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin commit: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var affected int64

	for _, op := range u.ops {
		n, err := u.apply(ctx, tx, op, now)
		if err != nil {
			return 0, err
		}
		affected += n
	}

	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	u.ops = nil
	return affected, nil
}

func (u *UnitOfWork) apply(ctx context.Context, tx *sqlx.Tx, op operation, now time.Time) (int64, error) {
	audit := op.entity.AuditFields()
	var query string

	switch op.kind {
	case opAdd:
		if audit.ID == uuid.Nil {
			audit.ID = uuid.New()
		}
		audit.CreatedAt = now
		if audit.CreatedBy == nil {
			audit.CreatedBy = u.actor
		}
		query = op.table.insertQuery

	case opUpdate:
		modifiedAt := now
		audit.ModifiedAt = &modifiedAt
		audit.ModifiedBy = u.actor
		query = op.table.updateQuery

	case opSoftDelete:
		if audit.IsDeleted {
			// Already logically absent. The original delete stamped
			// deleted_at; re-deleting must not move it.
			return 0, nil
		}
		deletedAt := now
		audit.IsDeleted = true
		audit.DeletedAt = &deletedAt
		audit.DeletedBy = op.actor
		query = op.table.softDeleteQuery

	default:
		return 0, fmt.Errorf("unknown operation kind %d", op.kind)
	}

	res, err := tx.NamedExecContext(ctx, query, op.entity)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", opName(op.kind), op.table.Name, err)
	}

	return res.RowsAffected()
}

func opName(k opKind) string {
	switch k {
	case opAdd:
		return "insert"
	case opUpdate:
		return "update"
	case opSoftDelete:
		return "soft delete"
	}
	return "unknown"
}
