package model

import "github.com/google/uuid"

// Category is a shared lookup for habits and goals.
type Category struct {
	Audit
	Name         string `db:"name" json:"name"`
	DisplayOrder int    `db:"display_order" json:"displayOrder"`
	IsActive     bool   `db:"is_active" json:"isActive"`
}

type SkipReason struct {
	Audit
	Code            string `db:"code" json:"code"`
	Description     string `db:"description" json:"description"`
	IsSystemDefined bool   `db:"is_system_defined" json:"isSystemDefined"`
}

// HabitSuggestion is a curated habit template surfaced during habit creation.
type HabitSuggestion struct {
	Audit
	CategoryID *uuid.UUID `db:"category_id" json:"categoryId,omitempty"`
	Name       string     `db:"name" json:"name"`
	Difficulty int        `db:"difficulty" json:"difficulty"`
}
