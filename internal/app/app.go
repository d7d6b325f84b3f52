package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/habitmatrix/habitmatrix/internal/config"
	"github.com/habitmatrix/habitmatrix/internal/db"
	"github.com/habitmatrix/habitmatrix/internal/service"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	AuthService      *service.AuthService
	HabitService     *service.HabitService
	GoalService      *service.GoalService
	DashboardService *service.DashboardService
	LookupService    *service.LookupService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Services
	authService := service.NewAuthService(database, cfg.JWTSecret, cfg.IsProduction(), cfg.JWTExpiry)
	habitService := service.NewHabitService(database)
	goalService := service.NewGoalService(database)
	dashboardService := service.NewDashboardService(database)
	lookupService := service.NewLookupService(database)

	return &App{
		Cfg:              cfg,
		DB:               database,
		AuthService:      authService,
		HabitService:     habitService,
		GoalService:      goalService,
		DashboardService: dashboardService,
		LookupService:    lookupService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
