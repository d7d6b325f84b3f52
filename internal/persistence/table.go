package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/habitmatrix/habitmatrix/internal/model"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Auditable is satisfied by every model that embeds model.Audit.
type Auditable interface {
	AuditFields() *model.Audit
}

// auditColumns are shared by every registered table, in schema order.
var auditColumns = []string{
	"id",
	"created_at",
	"created_by",
	"modified_at",
	"modified_by",
	"is_deleted",
	"deleted_at",
	"deleted_by",
}

// Table describes one registered entity table: its name plus the business
// columns that follow the audit block. The insert/update/soft-delete
// statements are derived once at registration so commits only bind values.
type Table struct {
	Name    string
	Columns []string

	insertQuery     string
	updateQuery     string
	softDeleteQuery string
}

// NewTable registers a table's column metadata and precompiles its write
// statements. Call it only from the package-level registry below.
func NewTable(name string, columns ...string) Table {
	all := append(append([]string{}, auditColumns...), columns...)

	params := make([]string, len(all))
	for i, col := range all {
		params[i] = ":" + col
	}

	sets := make([]string, 0, len(columns)+2)
	sets = append(sets, "modified_at = :modified_at", "modified_by = :modified_by")
	for _, col := range columns {
		sets = append(sets, fmt.Sprintf("%s = :%s", col, col))
	}

	return Table{
		Name:    name,
		Columns: columns,
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			name, strings.Join(all, ", "), strings.Join(params, ", ")),
		updateQuery: fmt.Sprintf("UPDATE %s SET %s WHERE id = :id AND is_deleted = FALSE",
			name, strings.Join(sets, ", ")),
		// The guard makes re-deleting an already-deleted row a no-op:
		// deleted_at is stamped exactly once.
		softDeleteQuery: fmt.Sprintf(
			"UPDATE %s SET is_deleted = TRUE, deleted_at = :deleted_at, deleted_by = :deleted_by WHERE id = :id AND is_deleted = FALSE",
			name),
	}
}

// Registered tables. Every business entity appears here exactly once; the
// read repositories and the unit of work consult this metadata, and every
// query they build carries the is_deleted = FALSE predicate.
var (
	Users            = NewTable("users", "username", "email", "password_hash", "role", "theme_preference")
	Habits           = NewTable("habits", "user_id", "category_id", "name", "difficulty", "status")
	HabitLogs        = NewTable("habit_logs", "habit_id", "log_date", "status", "notes")
	HabitSkipLogs    = NewTable("habit_skip_logs", "habit_log_id", "reason_id", "comment")
	Goals            = NewTable("goals", "user_id", "category_id", "title", "description", "priority", "deadline", "status")
	Milestones       = NewTable("milestones", "goal_id", "title", "description", "is_completed", "completed_at")
	Categories       = NewTable("categories", "name", "display_order", "is_active")
	SkipReasons      = NewTable("skip_reasons", "code", "description", "is_system_defined")
	HabitSuggestions = NewTable("habit_suggestions", "category_id", "name", "difficulty")
)

// Tables returns the full registration list, in no particular order.
func Tables() []Table {
	return []Table{
		Users, Habits, HabitLogs, HabitSkipLogs,
		Goals, Milestones, Categories, SkipReasons, HabitSuggestions,
	}
}
