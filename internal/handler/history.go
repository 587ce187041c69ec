package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/artur/tubedrop/internal/database/models"
	"github.com/artur/tubedrop/internal/service"
)

type HistoryHandler struct {
	history HistoryService
}

func NewHistoryHandler(history HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List serves GET /api/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	downloads, err := h.history.Recent(r.Context())
	if err != nil {
		log.Printf("[HISTORY] Failed to list downloads: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, downloads)
}

// Create serves POST /api/history
func (h *HistoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.DownloadInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		resp := errorResponse{Message: "Invalid history data"}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			resp.Field = typeErr.Field
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	d, err := h.history.Record(r.Context(), in)
	if err != nil {
		resp := errorResponse{Message: "Invalid history data"}
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			resp.Message = vErr.Error()
			resp.Field = vErr.Field
		} else {
			log.Printf("[HISTORY] Failed to record download: %v", err)
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}
