package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/artur/tubedrop/internal/downloader"
)

type infoRequest struct {
	URL string `json:"url"`
}

type InfoHandler struct {
	negotiator VideoInfoProvider
}

func NewInfoHandler(negotiator VideoInfoProvider) *InfoHandler {
	return &InfoHandler{negotiator: negotiator}
}

func (h *InfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req infoRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body", Field: "url"})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "URL is required", Field: "url"})
		return
	}

	info, err := h.negotiator.GetVideoInfo(r.Context(), req.URL)
	switch {
	case errors.Is(err, downloader.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, "Invalid YouTube URL")
		return
	case err != nil:
		log.Printf("[INFO] Failed to get video info for %s: %v", req.URL, err)
		writeError(w, http.StatusBadRequest, "Failed to fetch video info")
		return
	}

	log.Printf("[INFO] Resolved %q with %d formats", info.Title, len(info.Formats))
	writeJSON(w, http.StatusOK, info)
}
