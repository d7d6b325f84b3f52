package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/habitmatrix/habitmatrix/internal/model"
	"github.com/habitmatrix/habitmatrix/internal/persistence"
)

// HabitStats summarizes one habit's logging history for the dashboard.
type HabitStats struct {
	HabitID       uuid.UUID `json:"habitId"`
	Name          string    `json:"name"`
	CurrentStreak int       `json:"currentStreak"`
	BestStreak    int       `json:"bestStreak"`
	TotalLogged   int       `json:"totalLogged"`
}

// TrendPoint is one day of the completion trend.
type TrendPoint struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
}

type DashboardStats struct {
	Habits []HabitStats `json:"habits"`
	Trend  []TrendPoint `json:"trend"`
}

type DashboardService struct {
	habits *persistence.ReadRepository[model.Habit]
	logs   *persistence.ReadRepository[model.HabitLog]
}

func NewDashboardService(db *sqlx.DB) *DashboardService {
	return &DashboardService{
		habits: persistence.NewReadRepository[model.Habit](db, persistence.Habits),
		logs:   persistence.NewReadRepository[model.HabitLog](db, persistence.HabitLogs),
	}
}

// Stats computes per-habit streaks and a 7-day completion trend. Plain
// linear scans over the fetched logs, ordered by day.
func (s *DashboardService) Stats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	habits, err := s.habits.Find(ctx, "user_id = $1 ORDER BY created_at ASC", userID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Habits: make([]HabitStats, 0, len(habits)),
		Trend:  make([]TrendPoint, 0, 7),
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	completedByDay := map[string]int{}

	for _, habit := range habits {
		logs, err := s.logs.Find(ctx, "habit_id = $1 ORDER BY log_date ASC", habit.ID)
		if err != nil {
			return nil, err
		}

		hs := HabitStats{HabitID: habit.ID, Name: habit.Name, TotalLogged: len(logs)}

		streak := 0
		var prevDay time.Time
		for _, log := range logs {
			day, err := time.Parse(model.LogDateFormat, log.LogDate)
			if err != nil {
				continue
			}

			if log.Status != model.HabitLogStatusCompleted {
				streak = 0
				prevDay = day
				continue
			}

			completedByDay[log.LogDate]++

			if !prevDay.IsZero() && day.Sub(prevDay) == 24*time.Hour {
				streak++
			} else {
				streak = 1
			}
			prevDay = day

			hs.BestStreak = max(hs.BestStreak, streak)

			// The streak only counts as current if it reaches today
			// or yesterday.
			if today.Sub(day) <= 24*time.Hour {
				hs.CurrentStreak = streak
			}
		}

		stats.Habits = append(stats.Habits, hs)
	}

	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(model.LogDateFormat)
		stats.Trend = append(stats.Trend, TrendPoint{Date: day, Completed: completedByDay[day]})
	}

	return stats, nil
}
