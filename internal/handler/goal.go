package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/habitmatrix/habitmatrix/internal/ctxkeys"
	"github.com/habitmatrix/habitmatrix/internal/model"
	"github.com/habitmatrix/habitmatrix/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

type goalRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	Priority    int        `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
}

type goalResponse struct {
	*model.Goal
	Milestones []model.Milestone `json:"milestones"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	goal, err := h.goalService.Create(r.Context(), user.ID, req.Title, req.Description, req.CategoryID, req.Priority, req.Deadline)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, goal)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.UserGoals(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	goal, milestones, err := h.goalService.GoalWithMilestones(r.Context(), user.ID, goalID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, goalResponse{Goal: goal, Milestones: milestones})
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	goal, err := h.goalService.Update(r.Context(), user.ID, goalID, req.Title, req.Description, req.CategoryID, req.Priority, req.Deadline)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	err = h.goalService.Delete(r.Context(), user.ID, goalID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, nil)
}

func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	goal, err := h.goalService.Complete(r.Context(), user.ID, goalID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, goal)
}

func (h *GoalHandler) Archive(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	goal, err := h.goalService.Archive(r.Context(), user.ID, goalID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, goal)
}

type milestoneRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (h *GoalHandler) AddMilestone(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid goal id")
		return
	}

	var req milestoneRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	milestone, err := h.goalService.AddMilestone(r.Context(), user.ID, goalID, req.Title, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, milestone)
}

func (h *GoalHandler) CompleteMilestone(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	milestoneID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid milestone id")
		return
	}

	milestone, err := h.goalService.CompleteMilestone(r.Context(), user.ID, milestoneID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, milestone)
}

func (h *GoalHandler) ReopenMilestone(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	milestoneID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid milestone id")
		return
	}

	milestone, err := h.goalService.ReopenMilestone(r.Context(), user.ID, milestoneID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, milestone)
}
