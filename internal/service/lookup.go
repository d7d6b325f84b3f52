package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/habitmatrix/habitmatrix/internal/model"
	"github.com/habitmatrix/habitmatrix/internal/persistence"
)

// LookupService serves the shared lookup tables: categories, skip reasons
// and habit suggestions.
type LookupService struct {
	categories  *persistence.ReadRepository[model.Category]
	reasons     *persistence.ReadRepository[model.SkipReason]
	suggestions *persistence.ReadRepository[model.HabitSuggestion]
}

func NewLookupService(db *sqlx.DB) *LookupService {
	return &LookupService{
		categories:  persistence.NewReadRepository[model.Category](db, persistence.Categories),
		reasons:     persistence.NewReadRepository[model.SkipReason](db, persistence.SkipReasons),
		suggestions: persistence.NewReadRepository[model.HabitSuggestion](db, persistence.HabitSuggestions),
	}
}

func (s *LookupService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categories.Find(ctx, "is_active = TRUE ORDER BY display_order ASC")
}

func (s *LookupService) SkipReasons(ctx context.Context) ([]model.SkipReason, error) {
	return s.reasons.Find(ctx, "1 = 1 ORDER BY code ASC")
}

func (s *LookupService) Suggestions(ctx context.Context) ([]model.HabitSuggestion, error) {
	return s.suggestions.Find(ctx, "1 = 1 ORDER BY name ASC")
}
