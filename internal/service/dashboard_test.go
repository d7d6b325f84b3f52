package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitmatrix/habitmatrix/internal/model"
	"github.com/habitmatrix/habitmatrix/internal/service"
)

func TestDashboardStatsStreaks(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	habits := service.NewHabitService(database)

	user := createTestUser(t, database, "dash@example.com")
	habit, err := habits.Create(ctx, user.ID, "Daily walk", 1, nil)
	require.NoError(t, err)

	today := time.Now().UTC()
	day := func(offset int) string { return model.LogDateOf(today.AddDate(0, 0, offset)) }

	// A three-day run ending five days ago, a miss, then two days
	// reaching today.
	for _, offset := range []int{-7, -6, -5} {
		_, err = habits.Log(ctx, user.ID, habit.ID, day(offset), model.HabitLogStatusCompleted, nil)
		require.NoError(t, err)
	}
	_, err = habits.Log(ctx, user.ID, habit.ID, day(-2), model.HabitLogStatusMissed, nil)
	require.NoError(t, err)
	for _, offset := range []int{-1, 0} {
		_, err = habits.Log(ctx, user.ID, habit.ID, day(offset), model.HabitLogStatusCompleted, nil)
		require.NoError(t, err)
	}

	stats, err := service.NewDashboardService(database).Stats(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stats.Habits, 1)

	hs := stats.Habits[0]
	assert.Equal(t, habit.ID, hs.HabitID)
	assert.Equal(t, 6, hs.TotalLogged)
	assert.Equal(t, 3, hs.BestStreak)
	assert.Equal(t, 2, hs.CurrentStreak)
}

func TestDashboardStatsStaleStreakIsNotCurrent(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	habits := service.NewHabitService(database)

	user := createTestUser(t, database, "stale@example.com")
	habit, err := habits.Create(ctx, user.ID, "Old habit", 1, nil)
	require.NoError(t, err)

	today := time.Now().UTC()
	for _, offset := range []int{-10, -9, -8} {
		_, err = habits.Log(ctx, user.ID, habit.ID, model.LogDateOf(today.AddDate(0, 0, offset)), model.HabitLogStatusCompleted, nil)
		require.NoError(t, err)
	}

	stats, err := service.NewDashboardService(database).Stats(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stats.Habits, 1)

	assert.Equal(t, 3, stats.Habits[0].BestStreak)
	assert.Zero(t, stats.Habits[0].CurrentStreak, "a run that never reaches today or yesterday is not current")
}

func TestDashboardTrendCoversSevenDays(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	habits := service.NewHabitService(database)

	user := createTestUser(t, database, "trend@example.com")
	habit, err := habits.Create(ctx, user.ID, "Hydrate", 1, nil)
	require.NoError(t, err)

	today := time.Now().UTC()
	_, err = habits.Log(ctx, user.ID, habit.ID, model.LogDateOf(today), model.HabitLogStatusCompleted, nil)
	require.NoError(t, err)

	stats, err := service.NewDashboardService(database).Stats(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stats.Trend, 7)

	last := stats.Trend[6]
	assert.Equal(t, model.LogDateOf(today), last.Date)
	assert.Equal(t, 1, last.Completed)

	for _, point := range stats.Trend[:6] {
		assert.Zero(t, point.Completed)
	}
}

func TestDashboardIgnoresDeletedHabits(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	habits := service.NewHabitService(database)

	user := createTestUser(t, database, "dashgone@example.com")
	habit, err := habits.Create(ctx, user.ID, "Short lived", 1, nil)
	require.NoError(t, err)

	_, err = habits.Log(ctx, user.ID, habit.ID, model.LogDateOf(time.Now().UTC()), model.HabitLogStatusCompleted, nil)
	require.NoError(t, err)

	require.NoError(t, habits.Delete(ctx, user.ID, habit.ID))

	stats, err := service.NewDashboardService(database).Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stats.Habits)
}
