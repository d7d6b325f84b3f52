package persistence

import "github.com/google/uuid"

// WriteRepository stages mutations for one entity table into a unit of
// work. None of its methods touch the database; everything is deferred to
// UnitOfWork.Commit. T is the pointer form of the entity (e.g.
// *model.Habit) so staged entities pick up audit stamps in place.
type WriteRepository[T Auditable] struct {
	uow   *UnitOfWork
	table Table
}

func NewWriteRepository[T Auditable](uow *UnitOfWork, table Table) *WriteRepository[T] {
	return &WriteRepository[T]{uow: uow, table: table}
}

// Add stages an insert. The identifier and created_at stamp are assigned at
// commit time.
func (w *WriteRepository[T]) Add(entity T) {
	w.uow.stage(operation{kind: opAdd, table: w.table, entity: entity})
}

// Update stages a full-entity replacement. Callers load a live copy first
// and mutate it; there is no partial-field patching.
func (w *WriteRepository[T]) Update(entity T) {
	w.uow.stage(operation{kind: opUpdate, table: w.table, entity: entity})
}

// SoftDelete stages a logical deletion by actor. The row is never
// physically removed; commit flips is_deleted and stamps deleted_at once.
func (w *WriteRepository[T]) SoftDelete(entity T, actor *uuid.UUID) {
	w.uow.stage(operation{kind: opSoftDelete, table: w.table, entity: entity, actor: actor})
}
