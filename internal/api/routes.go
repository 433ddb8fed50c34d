package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// SetupRoutes configures the addon routes
func SetupRoutes(handler *Handler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", handler.RootHandler).Methods("GET")
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Stremio addon protocol
	r.HandleFunc("/manifest.json", handler.StremioManifestHandler).Methods("GET")
	r.HandleFunc("/stream/{type}/{id}.json", handler.StremioStreamHandler).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)

	// Wrapped outside the router so preflights and unknown paths get them too
	return loggingMiddleware(handler.logger)(corsMiddleware(r))
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs all HTTP requests
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}
