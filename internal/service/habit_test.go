package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitmatrix/habitmatrix/internal/db"
	"github.com/habitmatrix/habitmatrix/internal/model"
	"github.com/habitmatrix/habitmatrix/internal/persistence"
	"github.com/habitmatrix/habitmatrix/internal/service"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	database, err := db.Init("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	return database
}

func createTestUser(t *testing.T, database *sqlx.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Username:        "tester",
		Email:           email,
		PasswordHash:    "x.y",
		Role:            model.RoleUser,
		ThemePreference: "light",
	}

	uow := persistence.NewUnitOfWork(database, nil)
	persistence.NewWriteRepository[*model.User](uow, persistence.Users).Add(user)
	_, err := uow.Commit(context.Background())
	require.NoError(t, err)

	return user
}

func firstSkipReason(t *testing.T, database *sqlx.DB) model.SkipReason {
	t.Helper()

	reasons, err := service.NewLookupService(database).SkipReasons(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, reasons, "seed migration should provide skip reasons")

	return reasons[0]
}

func TestCreateHabitRequiresName(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "habits@example.com")

	_, err := service.NewHabitService(database).Create(context.Background(), user.ID, "", 1, nil)
	assert.ErrorIs(t, err, service.ErrHabitNameRequired)
}

func TestCreateHabitUnknownCategory(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "habits@example.com")

	bogus := user.ID // any uuid that is not a category
	_, err := service.NewHabitService(database).Create(context.Background(), user.ID, "Stretch", 1, &bogus)
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)
}

func TestHabitOwnershipIsEnforced(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	habits := service.NewHabitService(database)

	owner := createTestUser(t, database, "owner@example.com")
	intruder := createTestUser(t, database, "intruder@example.com")

	habit, err := habits.Create(ctx, owner.ID, "Meditate", 1, nil)
	require.NoError(t, err)

	_, err = habits.ByID(ctx, intruder.ID, habit.ID)
	assert.ErrorIs(t, err, service.ErrHabitNotFound, "foreign habits must look absent")

	err = habits.Delete(ctx, intruder.ID, habit.ID)
	assert.ErrorIs(t, err, service.ErrHabitNotFound)
}

func TestLogSameDayUpdatesExistingEntry(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	habits := service.NewHabitService(database)

	user := createTestUser(t, database, "logs@example.com")
	habit, err := habits.Create(ctx, user.ID, "Walk", 1, nil)
	require.NoError(t, err)

	first, err := habits.Log(ctx, user.ID, habit.ID, "2025-01-01", model.HabitLogStatusCompleted, nil)
	require.NoError(t, err)

	note := "slow day"
	second, err := habits.Log(ctx, user.ID, habit.ID, "2025-01-01", model.HabitLogStatusMissed, &note)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same-day log must reuse the existing entry")
	assert.Equal(t, model.HabitLogStatusMissed, second.Status)

	logs, err := habits.Logs(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1, "the unique (habit, day) constraint must hold")
	require.NotNil(t, logs[0].Notes)
	assert.Equal(t, note, *logs[0].Notes)
	assert.NotNil(t, logs[0].ModifiedAt)
}

func TestLogRejectsMalformedDate(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	habits := service.NewHabitService(database)

	user := createTestUser(t, database, "dates@example.com")
	habit, err := habits.Create(ctx, user.ID, "Walk", 1, nil)
	require.NoError(t, err)

	_, err = habits.Log(ctx, user.ID, habit.ID, "01/02/2025", model.HabitLogStatusCompleted, nil)
	assert.ErrorIs(t, err, service.ErrInvalidLogDate)
}

func TestAddSkipMarksLogAndRejectsDuplicates(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	habits := service.NewHabitService(database)

	user := createTestUser(t, database, "skips@example.com")
	habit, err := habits.Create(ctx, user.ID, "Gym", 2, nil)
	require.NoError(t, err)

	log, err := habits.Log(ctx, user.ID, habit.ID, "2025-01-02", model.HabitLogStatusMissed, nil)
	require.NoError(t, err)

	reason := firstSkipReason(t, database)

	comment := "travelling"
	skip, err := habits.AddSkip(ctx, user.ID, log.ID, reason.ID, &comment)
	require.NoError(t, err)
	assert.Equal(t, log.ID, skip.HabitLogID)

	// Both writes land in one commit: the log is now marked skipped.
	logs, err := habits.Logs(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.HabitLogStatusSkipped, logs[0].Status)

	_, err = habits.AddSkip(ctx, user.ID, log.ID, reason.ID, nil)
	assert.ErrorIs(t, err, service.ErrSkipAlreadyLogged)
}

func TestDeletedHabitDisappearsFromListing(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	habits := service.NewHabitService(database)

	user := createTestUser(t, database, "gone@example.com")
	habit, err := habits.Create(ctx, user.ID, "Floss", 1, nil)
	require.NoError(t, err)

	require.NoError(t, habits.Delete(ctx, user.ID, habit.ID))

	listed, err := habits.UserHabits(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = habits.ByID(ctx, user.ID, habit.ID)
	assert.ErrorIs(t, err, service.ErrHabitNotFound)
}
