package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/habitmatrix/habitmatrix/internal/model"
	"github.com/habitmatrix/habitmatrix/internal/persistence"
)

var (
	ErrHabitNotFound      = errors.New("habit not found")
	ErrHabitNameRequired  = errors.New("habit name is required")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrHabitLogNotFound   = errors.New("habit log not found")
	ErrSkipReasonNotFound = errors.New("skip reason not found")
	ErrSkipAlreadyLogged  = errors.New("skip reason already recorded for this log")
	ErrInvalidLogDate     = errors.New("log date must be YYYY-MM-DD")
)

type HabitService struct {
	db         *sqlx.DB
	habits     *persistence.ReadRepository[model.Habit]
	logs       *persistence.ReadRepository[model.HabitLog]
	skips      *persistence.ReadRepository[model.HabitSkipLog]
	categories *persistence.ReadRepository[model.Category]
	reasons    *persistence.ReadRepository[model.SkipReason]
}

func NewHabitService(db *sqlx.DB) *HabitService {
	return &HabitService{
		db:         db,
		habits:     persistence.NewReadRepository[model.Habit](db, persistence.Habits),
		logs:       persistence.NewReadRepository[model.HabitLog](db, persistence.HabitLogs),
		skips:      persistence.NewReadRepository[model.HabitSkipLog](db, persistence.HabitSkipLogs),
		categories: persistence.NewReadRepository[model.Category](db, persistence.Categories),
		reasons:    persistence.NewReadRepository[model.SkipReason](db, persistence.SkipReasons),
	}
}

func (s *HabitService) Create(ctx context.Context, userID uuid.UUID, name string, difficulty int, categoryID *uuid.UUID) (*model.Habit, error) {
	if name == "" {
		return nil, ErrHabitNameRequired
	}

	err := s.checkCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	habit := &model.Habit{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       name,
		Difficulty: difficulty,
		Status:     model.HabitStatusActive,
	}

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.Habit](uow, persistence.Habits).Add(habit)

	_, err = uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return habit, nil
}

// ByID fetches a live habit and verifies ownership. A habit owned by
// another user is reported as not found rather than forbidden.
func (s *HabitService) ByID(ctx context.Context, userID, habitID uuid.UUID) (*model.Habit, error) {
	habit, err := s.habits.ByID(ctx, habitID)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, ErrHabitNotFound
	}

	return habit, nil
}

func (s *HabitService) UserHabits(ctx context.Context, userID uuid.UUID) ([]model.Habit, error) {
	return s.habits.Find(ctx, "user_id = $1 ORDER BY created_at DESC", userID)
}

func (s *HabitService) Update(ctx context.Context, userID, habitID uuid.UUID, name string, difficulty int, categoryID *uuid.UUID, status int) (*model.Habit, error) {
	if name == "" {
		return nil, ErrHabitNameRequired
	}

	habit, err := s.ByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	err = s.checkCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	habit.Name = name
	habit.Difficulty = difficulty
	habit.CategoryID = categoryID
	habit.Status = status

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.Habit](uow, persistence.Habits).Update(habit)

	_, err = uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, userID, habitID uuid.UUID) error {
	habit, err := s.ByID(ctx, userID, habitID)
	if err != nil {
		return err
	}

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.Habit](uow, persistence.Habits).SoftDelete(habit, &userID)

	_, err = uow.Commit(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	return nil
}

// Log records one day of activity for a habit. At most one log exists per
// (habit, day): logging the same day again updates the existing entry
// instead of tripping the unique constraint.
func (s *HabitService) Log(ctx context.Context, userID, habitID uuid.UUID, logDate string, status int, notes *string) (*model.HabitLog, error) {
	_, err := s.ByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if logDate == "" {
		logDate = model.LogDateOf(time.Now())
	} else if _, err := time.Parse(model.LogDateFormat, logDate); err != nil {
		return nil, ErrInvalidLogDate
	}

	uow := persistence.NewUnitOfWork(s.db, &userID)
	writer := persistence.NewWriteRepository[*model.HabitLog](uow, persistence.HabitLogs)

	existing, err := s.logs.Find(ctx, "habit_id = $1 AND log_date = $2", habitID, logDate)
	if err != nil {
		return nil, fmt.Errorf("failed to look up log: %w", err)
	}

	var log *model.HabitLog
	if len(existing) > 0 {
		log = &existing[0]
		log.Status = status
		log.Notes = notes
		writer.Update(log)
	} else {
		log = &model.HabitLog{
			HabitID: habitID,
			LogDate: logDate,
			Status:  status,
			Notes:   notes,
		}
		writer.Add(log)
	}

	_, err = uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to log habit: %w", err)
	}

	return log, nil
}

func (s *HabitService) Logs(ctx context.Context, userID, habitID uuid.UUID) ([]model.HabitLog, error) {
	_, err := s.ByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	return s.logs.Find(ctx, "habit_id = $1 ORDER BY log_date ASC", habitID)
}

// AddSkip attaches a skip reason to an existing log and marks the log
// skipped. Both writes go through one commit.
func (s *HabitService) AddSkip(ctx context.Context, userID, logID, reasonID uuid.UUID, comment *string) (*model.HabitSkipLog, error) {
	log, err := s.logs.ByID(ctx, logID)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, ErrHabitLogNotFound
	}
	if err != nil {
		return nil, err
	}

	// Ownership runs through the parent habit.
	_, err = s.ByID(ctx, userID, log.HabitID)
	if err != nil {
		return nil, err
	}

	_, err = s.reasons.ByID(ctx, reasonID)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, ErrSkipReasonNotFound
	}
	if err != nil {
		return nil, err
	}

	taken, err := s.skips.Exists(ctx, "habit_log_id = $1", logID)
	if err != nil {
		return nil, fmt.Errorf("failed to check skip log: %w", err)
	}
	if taken {
		return nil, ErrSkipAlreadyLogged
	}

	skip := &model.HabitSkipLog{
		HabitLogID: logID,
		ReasonID:   reasonID,
		Comment:    comment,
	}
	log.Status = model.HabitLogStatusSkipped

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.HabitSkipLog](uow, persistence.HabitSkipLogs).Add(skip)
	persistence.NewWriteRepository[*model.HabitLog](uow, persistence.HabitLogs).Update(log)

	_, err = uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to record skip: %w", err)
	}

	return skip, nil
}

func (s *HabitService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}

	_, err := s.categories.ByID(ctx, *categoryID)
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrCategoryNotFound
	}
	return err
}
