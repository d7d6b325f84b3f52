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
	ErrGoalNotFound             = errors.New("goal not found")
	ErrGoalTitleRequired        = errors.New("goal title is required")
	ErrGoalAlreadyCompleted     = errors.New("goal already completed")
	ErrOpenMilestones           = errors.New("cannot complete goal until all milestones are completed")
	ErrMilestoneNotFound        = errors.New("milestone not found")
	ErrMilestoneTitleRequired   = errors.New("milestone title is required")
	ErrMilestoneAlreadyComplete = errors.New("milestone is already completed")
)

type GoalService struct {
	db         *sqlx.DB
	goals      *persistence.ReadRepository[model.Goal]
	milestones *persistence.ReadRepository[model.Milestone]
	categories *persistence.ReadRepository[model.Category]
}

func NewGoalService(db *sqlx.DB) *GoalService {
	return &GoalService{
		db:         db,
		goals:      persistence.NewReadRepository[model.Goal](db, persistence.Goals),
		milestones: persistence.NewReadRepository[model.Milestone](db, persistence.Milestones),
		categories: persistence.NewReadRepository[model.Category](db, persistence.Categories),
	}
}

func (s *GoalService) Create(ctx context.Context, userID uuid.UUID, title string, description *string, categoryID *uuid.UUID, priority int, deadline *time.Time) (*model.Goal, error) {
	if title == "" {
		return nil, ErrGoalTitleRequired
	}

	err := s.checkCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	goal := &model.Goal{
		UserID:      userID,
		CategoryID:  categoryID,
		Title:       title,
		Description: description,
		Priority:    priority,
		Deadline:    deadline,
		Status:      model.GoalStatusActive,
	}

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.Goal](uow, persistence.Goals).Add(goal)

	_, err = uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error) {
	goal, err := s.goals.ByID(ctx, goalID)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, ErrGoalNotFound
	}

	return goal, nil
}

func (s *GoalService) UserGoals(ctx context.Context, userID uuid.UUID) ([]model.Goal, error) {
	return s.goals.Find(ctx, "user_id = $1 ORDER BY priority DESC, created_at DESC", userID)
}

func (s *GoalService) GoalWithMilestones(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, []model.Milestone, error) {
	goal, err := s.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, nil, err
	}

	milestones, err := s.milestones.Find(ctx, "goal_id = $1 ORDER BY created_at ASC", goalID)
	if err != nil {
		return nil, nil, err
	}

	return goal, milestones, nil
}

func (s *GoalService) Update(ctx context.Context, userID, goalID uuid.UUID, title string, description *string, categoryID *uuid.UUID, priority int, deadline *time.Time) (*model.Goal, error) {
	if title == "" {
		return nil, ErrGoalTitleRequired
	}

	goal, err := s.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	err = s.checkCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	goal.Title = title
	goal.Description = description
	goal.CategoryID = categoryID
	goal.Priority = priority
	goal.Deadline = deadline

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.Goal](uow, persistence.Goals).Update(goal)

	_, err = uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	goal, err := s.ByID(ctx, userID, goalID)
	if err != nil {
		return err
	}

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.Goal](uow, persistence.Goals).SoftDelete(goal, &userID)

	_, err = uow.Commit(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	return nil
}

// AddMilestone creates a milestone and touches the parent goal in the same
// commit, so the goal's modified stamp tracks aggregate changes.
func (s *GoalService) AddMilestone(ctx context.Context, userID, goalID uuid.UUID, title string, description *string) (*model.Milestone, error) {
	if title == "" {
		return nil, ErrMilestoneTitleRequired
	}

	goal, err := s.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	milestone := &model.Milestone{
		GoalID:      goalID,
		Title:       title,
		Description: description,
	}

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.Milestone](uow, persistence.Milestones).Add(milestone)
	persistence.NewWriteRepository[*model.Goal](uow, persistence.Goals).Update(goal)

	_, err = uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add milestone: %w", err)
	}

	return milestone, nil
}

func (s *GoalService) CompleteMilestone(ctx context.Context, userID, milestoneID uuid.UUID) (*model.Milestone, error) {
	milestone, err := s.ownedMilestone(ctx, userID, milestoneID)
	if err != nil {
		return nil, err
	}

	if milestone.IsCompleted {
		return nil, ErrMilestoneAlreadyComplete
	}

	now := time.Now().UTC()
	milestone.IsCompleted = true
	milestone.CompletedAt = &now

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.Milestone](uow, persistence.Milestones).Update(milestone)

	_, err = uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to complete milestone: %w", err)
	}

	return milestone, nil
}

func (s *GoalService) ReopenMilestone(ctx context.Context, userID, milestoneID uuid.UUID) (*model.Milestone, error) {
	milestone, err := s.ownedMilestone(ctx, userID, milestoneID)
	if err != nil {
		return nil, err
	}

	milestone.IsCompleted = false
	milestone.CompletedAt = nil

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.Milestone](uow, persistence.Milestones).Update(milestone)

	_, err = uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen milestone: %w", err)
	}

	return milestone, nil
}

// Complete marks a goal completed. It fails while any live milestone is
// still open, leaving the goal untouched.
func (s *GoalService) Complete(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error) {
	goal, err := s.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Status == model.GoalStatusCompleted {
		return nil, ErrGoalAlreadyCompleted
	}

	open, err := s.milestones.Count(ctx, "goal_id = $1 AND is_completed = FALSE", goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to count milestones: %w", err)
	}
	if open > 0 {
		return nil, ErrOpenMilestones
	}

	goal.Status = model.GoalStatusCompleted

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.Goal](uow, persistence.Goals).Update(goal)

	_, err = uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to complete goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Archive(ctx context.Context, userID, goalID uuid.UUID) (*model.Goal, error) {
	goal, err := s.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Status = model.GoalStatusArchived

	uow := persistence.NewUnitOfWork(s.db, &userID)
	persistence.NewWriteRepository[*model.Goal](uow, persistence.Goals).Update(goal)

	_, err = uow.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to archive goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) ownedMilestone(ctx context.Context, userID, milestoneID uuid.UUID) (*model.Milestone, error) {
	milestone, err := s.milestones.ByID(ctx, milestoneID)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, ErrMilestoneNotFound
	}
	if err != nil {
		return nil, err
	}

	_, err = s.ByID(ctx, userID, milestone.GoalID)
	if err != nil {
		return nil, ErrMilestoneNotFound
	}

	return milestone, nil
}

func (s *GoalService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}

	_, err := s.categories.ByID(ctx, *categoryID)
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrCategoryNotFound
	}
	return err
}
