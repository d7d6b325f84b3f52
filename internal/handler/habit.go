package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/habitmatrix/habitmatrix/internal/ctxkeys"
	"github.com/habitmatrix/habitmatrix/internal/service"
)

type HabitHandler struct {
	habitService *service.HabitService
}

func NewHabitHandler(habitService *service.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

type habitRequest struct {
	Name       string     `json:"name"`
	Difficulty int        `json:"difficulty"`
	CategoryID *uuid.UUID `json:"categoryId"`
	Status     int        `json:"status"`
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req habitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	habit, err := h.habitService.Create(r.Context(), user.ID, req.Name, req.Difficulty, req.CategoryID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, habit)
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	habits, err := h.habitService.UserHabits(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, habits)
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	habitID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid habit id")
		return
	}

	habit, err := h.habitService.ByID(r.Context(), user.ID, habitID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, habit)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	habitID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid habit id")
		return
	}

	var req habitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	habit, err := h.habitService.Update(r.Context(), user.ID, habitID, req.Name, req.Difficulty, req.CategoryID, req.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, habit)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	habitID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid habit id")
		return
	}

	err = h.habitService.Delete(r.Context(), user.ID, habitID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, nil)
}

type logHabitRequest struct {
	HabitID uuid.UUID `json:"habitId"`
	LogDate string    `json:"logDate"`
	Status  int       `json:"status"`
	Notes   *string   `json:"notes"`
}

func (h *HabitHandler) Log(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req logHabitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	log, err := h.habitService.Log(r.Context(), user.ID, req.HabitID, req.LogDate, req.Status, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, log)
}

func (h *HabitHandler) Logs(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	habitID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondBadRequest(w, "invalid habit id")
		return
	}

	logs, err := h.habitService.Logs(r.Context(), user.ID, habitID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, logs)
}

type skipRequest struct {
	HabitLogID uuid.UUID `json:"habitLogId"`
	ReasonID   uuid.UUID `json:"reasonId"`
	Comment    *string   `json:"comment"`
}

func (h *HabitHandler) AddSkip(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req skipRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	skip, err := h.habitService.AddSkip(r.Context(), user.ID, req.HabitLogID, req.ReasonID, req.Comment)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, skip)
}
