package handler

import (
	"net/http"

	"github.com/habitmatrix/habitmatrix/internal/service"
)

type LookupHandler struct {
	lookupService *service.LookupService
}

func NewLookupHandler(lookupService *service.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

func (h *LookupHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.lookupService.Categories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, categories)
}

func (h *LookupHandler) SkipReasons(w http.ResponseWriter, r *http.Request) {
	reasons, err := h.lookupService.SkipReasons(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, reasons)
}

func (h *LookupHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.lookupService.Suggestions(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, suggestions)
}
