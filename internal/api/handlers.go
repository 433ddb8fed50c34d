package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/models"
)

// StreamProvider answers Stremio stream requests
type StreamProvider interface {
	GetStreams(ctx context.Context, req models.StreamRequest) models.StreamResponse
}

type Handler struct {
	streamProvider StreamProvider
	requestTimeout time.Duration
	logger         *slog.Logger
}

// NewHandler creates a handler. A zero requestTimeout leaves the request context as is.
func NewHandler(streamProvider StreamProvider, requestTimeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		streamProvider: streamProvider,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// RootHandler sends visitors to the manifest
func (h *Handler) RootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/manifest.json", http.StatusFound)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound handles unknown routes
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "not found")
}
