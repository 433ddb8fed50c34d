package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Zerr0-C00L/ArchiveStreams/internal/models"
)

const (
	manifestID          = "org.stremio.internet-archive"
	manifestVersion     = "0.0.1"
	manifestName        = "Internet Archive"
	manifestDescription = "See if a movie is available on Internet Archive and play it instantly, directly from Stremio."
)

// StremioManifest represents the Stremio addon manifest
type StremioManifest struct {
	ID          string           `json:"id"`
	Version     string           `json:"version"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Resources   []string         `json:"resources"`
	Types       []string         `json:"types"`
	Catalogs    []StremioCatalog `json:"catalogs"`
	IDPrefixes  []string         `json:"idPrefixes"`
}

// StremioCatalog represents a catalog in Stremio. The addon publishes none.
type StremioCatalog struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Manifest returns the addon manifest
func Manifest() StremioManifest {
	return StremioManifest{
		ID:          manifestID,
		Version:     manifestVersion,
		Name:        manifestName,
		Description: manifestDescription,
		Resources:   []string{"stream"},
		Types:       []string{"movie"},
		Catalogs:    []StremioCatalog{},
		IDPrefixes:  []string{"tt"},
	}
}

// StremioManifestHandler serves the Stremio addon manifest
func (h *Handler) StremioManifestHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Manifest())
}

// StremioStreamHandler handles GET /stream/{type}/{id}.json. Lookups never fail
// towards Stremio: any upstream problem yields {"streams":[]}.
func (h *Handler) StremioStreamHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	req := models.StreamRequest{
		Type: vars["type"], // only "movie" is answered
		ID:   vars["id"],   // tt123456 or tt123456:1:2
	}

	if h.streamProvider == nil {
		h.logger.Warn("Stream provider not configured, returning empty streams")
		respondJSON(w, http.StatusOK, models.EmptyStreamResponse())
		return
	}

	ctx := r.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	resp := h.streamProvider.GetStreams(ctx, req)
	if resp.Streams == nil {
		resp = models.EmptyStreamResponse()
	}

	h.logger.Debug("Stream request served", "type", req.Type, "id", req.ID, "count", len(resp.Streams))
	respondJSON(w, http.StatusOK, resp)
}
