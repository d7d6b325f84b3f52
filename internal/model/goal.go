package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	GoalStatusActive    = 1
	GoalStatusCompleted = 2
	GoalStatusArchived  = 3
)

type Goal struct {
	Audit
	UserID      uuid.UUID  `db:"user_id" json:"userId"`
	CategoryID  *uuid.UUID `db:"category_id" json:"categoryId,omitempty"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Priority    int        `db:"priority" json:"priority"`
	Deadline    *time.Time `db:"deadline" json:"deadline,omitempty"`
	Status      int        `db:"status" json:"status"`
}

type Milestone struct {
	Audit
	GoalID      uuid.UUID  `db:"goal_id" json:"goalId"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	IsCompleted bool       `db:"is_completed" json:"isCompleted"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}
