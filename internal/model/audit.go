package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit carries the identity, audit-stamp and soft-delete columns shared by
// every business record. Embed it as the first field of an entity struct;
// the persistence layer fills the stamps at commit time.
type Audit struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	CreatedBy  *uuid.UUID `db:"created_by" json:"createdBy,omitempty"`
	ModifiedAt *time.Time `db:"modified_at" json:"modifiedAt,omitempty"`
	ModifiedBy *uuid.UUID `db:"modified_by" json:"modifiedBy,omitempty"`
	IsDeleted  bool       `db:"is_deleted" json:"-"`
	DeletedAt  *time.Time `db:"deleted_at" json:"-"`
	DeletedBy  *uuid.UUID `db:"deleted_by" json:"-"`
}

// AuditFields returns the embedded audit block. Entities satisfy
// persistence.Auditable through this method.
func (a *Audit) AuditFields() *Audit {
	return a
}
