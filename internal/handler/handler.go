package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/artur/tubedrop/internal/database/models"
	"github.com/artur/tubedrop/internal/downloader"
	"github.com/artur/tubedrop/internal/service"
)

const maxBodyBytes = 1 << 20

// VideoInfoProvider resolves metadata for the info endpoint
type VideoInfoProvider interface {
	GetVideoInfo(ctx context.Context, rawURL string) (*downloader.VideoMetadata, error)
}

// StreamRelay writes a download straight into the response
type StreamRelay interface {
	Serve(ctx context.Context, w http.ResponseWriter, req service.RelayRequest) (int64, error)
}

// HistoryService records and lists downloads
type HistoryService interface {
	Record(ctx context.Context, in models.DownloadInput) (*models.Download, error)
	Recent(ctx context.Context) ([]models.Download, error)
}

type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}
