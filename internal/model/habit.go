package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	HabitStatusActive    = 1
	HabitStatusCompleted = 2
	HabitStatusArchived  = 3
)

const (
	HabitLogStatusMissed    = 0
	HabitLogStatusCompleted = 1
	HabitLogStatusSkipped   = 2
)

type Habit struct {
	Audit
	UserID     uuid.UUID  `db:"user_id" json:"userId"`
	CategoryID *uuid.UUID `db:"category_id" json:"categoryId,omitempty"`
	Name       string     `db:"name" json:"name"`
	Difficulty int        `db:"difficulty" json:"difficulty"`
	Status     int        `db:"status" json:"status"`
}

// HabitLog records one day of activity for a habit. At most one log exists
// per (habit, log date); the table enforces that with a unique index.
type HabitLog struct {
	Audit
	HabitID uuid.UUID `db:"habit_id" json:"habitId"`
	LogDate string    `db:"log_date" json:"logDate"` // YYYY-MM-DD
	Status  int       `db:"status" json:"status"`
	Notes   *string   `db:"notes" json:"notes,omitempty"`
}

// HabitSkipLog attaches a skip reason to a habit log. Zero or one per log.
type HabitSkipLog struct {
	Audit
	HabitLogID uuid.UUID `db:"habit_log_id" json:"habitLogId"`
	ReasonID   uuid.UUID `db:"reason_id" json:"reasonId"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
}

// LogDateFormat is the canonical day key for habit logs.
const LogDateFormat = "2006-01-02"

func LogDateOf(t time.Time) string {
	return t.UTC().Format(LogDateFormat)
}
