package routes

import (
	"net/http"

	"github.com/habitmatrix/habitmatrix/internal/app"
	"github.com/habitmatrix/habitmatrix/internal/handler"
	"github.com/habitmatrix/habitmatrix/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(a.DB)
	auth := handler.NewAuthHandler(a.AuthService)
	habit := handler.NewHabitHandler(a.HabitService)
	goal := handler.NewGoalHandler(a.GoalService)
	dashboard := handler.NewDashboardHandler(a.DashboardService)
	lookup := handler.NewLookupHandler(a.LookupService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", health.Health)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)

	// Lookups (public)
	mux.HandleFunc("GET /api/categories", lookup.Categories)
	mux.HandleFunc("GET /api/skip-reasons", lookup.SkipReasons)
	mux.HandleFunc("GET /api/suggestions", lookup.Suggestions)

	// Habits
	mux.HandleFunc("POST /api/habits", middleware.RequireAuth(habit.Create))
	mux.HandleFunc("GET /api/habits", middleware.RequireAuth(habit.List))
	mux.HandleFunc("GET /api/habits/{id}", middleware.RequireAuth(habit.Get))
	mux.HandleFunc("PUT /api/habits/{id}", middleware.RequireAuth(habit.Update))
	mux.HandleFunc("DELETE /api/habits/{id}", middleware.RequireAuth(habit.Delete))
	mux.HandleFunc("GET /api/habits/{id}/logs", middleware.RequireAuth(habit.Logs))
	mux.HandleFunc("POST /api/habits/log", middleware.RequireAuth(habit.Log))
	mux.HandleFunc("POST /api/habits/skip", middleware.RequireAuth(habit.AddSkip))

	// Goals
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PUT /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))
	mux.HandleFunc("POST /api/goals/{id}/complete", middleware.RequireAuth(goal.Complete))
	mux.HandleFunc("POST /api/goals/{id}/archive", middleware.RequireAuth(goal.Archive))
	mux.HandleFunc("POST /api/goals/{id}/milestones", middleware.RequireAuth(goal.AddMilestone))
	mux.HandleFunc("POST /api/milestones/{id}/complete", middleware.RequireAuth(goal.CompleteMilestone))
	mux.HandleFunc("POST /api/milestones/{id}/reopen", middleware.RequireAuth(goal.ReopenMilestone))

	// Dashboard
	mux.HandleFunc("GET /api/dashboard/stats", middleware.RequireAuth(dashboard.Stats))

	// Global middleware
	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(a.AuthService),
	)
}
