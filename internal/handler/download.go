package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/artur/tubedrop/internal/downloader"
	"github.com/artur/tubedrop/internal/service"
)

type DownloadHandler struct {
	relay StreamRelay
}

func NewDownloadHandler(relay StreamRelay) *DownloadHandler {
	return &DownloadHandler{relay: relay}
}

func (h *DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// GET routes also match HEAD, which would open a platform stream for nothing.
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req := parseRelayRequest(r)

	n, err := h.relay.Serve(r.Context(), w, req)
	switch {
	case err == nil:
		log.Printf("[DOWNLOAD] Sent %d bytes for %s", n, req.URL)
	case errors.Is(err, downloader.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, "Invalid URL")
	case errors.Is(err, service.ErrStreamAborted):
		// Status and part of the body are already out, drop the connection.
		log.Printf("[DOWNLOAD] Stream aborted for %s: %v", req.URL, err)
		panic(http.ErrAbortHandler)
	default:
		log.Printf("[DOWNLOAD] Failed to download %s: %v", req.URL, err)
		writeError(w, http.StatusInternalServerError, "Download failed")
	}
}

// parseRelayRequest reads url, format and itag from the query.
// An itag that is not a number counts as absent.
func parseRelayRequest(r *http.Request) service.RelayRequest {
	q := r.URL.Query()
	req := service.RelayRequest{
		URL:    q.Get("url"),
		Format: q.Get("format"),
	}
	if raw := q.Get("itag"); raw != "" {
		if itag, err := strconv.Atoi(raw); err == nil && itag != 0 {
			req.Itag = &itag
		}
	}
	return req
}
