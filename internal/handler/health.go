package handler

import (
	"net/http"

	"github.com/jmoiron/sqlx"
)

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	err := h.db.PingContext(r.Context())
	if err != nil {
		respondJSON(w, http.StatusServiceUnavailable, envelope{Success: false, Error: "database unreachable"})
		return
	}

	respondOK(w, map[string]string{"status": "ok"})
}
