package handler

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Handlers groups everything the router serves
type Handlers struct {
	Info     *InfoHandler
	Download *DownloadHandler
	History  *HistoryHandler
	Health   *HealthHandler
}

// NewRouter wires the API routes behind the middleware chain
func NewRouter(h Handlers, limiter *rate.Limiter) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/info", h.Info)
	mux.Handle("GET /api/download", h.Download)
	mux.HandleFunc("GET /api/history", h.History.List)
	mux.HandleFunc("POST /api/history", h.History.Create)
	if h.Health != nil {
		mux.Handle("GET /healthz", h.Health)
	}

	var handler http.Handler = mux
	if limiter != nil {
		handler = rateLimit(limiter, handler)
	}
	handler = recoverPanics(handler)
	handler = cors(handler)
	handler = accessLog(handler)
	handler = requestID(handler)
	return handler
}
