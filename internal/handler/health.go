package handler

import (
	"context"
	"log"
	"net/http"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DownloadCounter reports how many downloads were recorded
type DownloadCounter interface {
	GetTotalDownloads(ctx context.Context) (int64, error)
}

type healthResponse struct {
	Status    string `json:"status"`
	Downloads int64  `json:"downloads"`
}

type HealthHandler struct {
	db      Pinger
	counter DownloadCounter
}

func NewHealthHandler(db Pinger, counter DownloadCounter) *HealthHandler {
	return &HealthHandler{db: db, counter: counter}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		log.Printf("[HEALTH] Database ping failed: %v", err)
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	total, err := h.counter.GetTotalDownloads(r.Context())
	if err != nil {
		log.Printf("[HEALTH] Failed to count downloads: %v", err)
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Downloads: total})
}
