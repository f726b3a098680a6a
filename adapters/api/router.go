// Package api serves the risk assessment engine over JSON/HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"goqmra/app"
	"goqmra/internal"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger       *internal.Logger
	Assessments  *app.AssessmentService
	Batches      *app.BatchService
	MaxBodyBytes int64
}

// NewRouter creates a chi router with every API route configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = internal.DefaultLogger
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 8 << 20
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)

	h := NewHandler(cfg.Assessments, cfg.Batches, cfg.MaxBodyBytes, cfg.Logger)

	r.Get("/healthz", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/pathogens", func(r chi.Router) {
			r.Get("/", h.ListPathogens)
			r.Get("/{name}", h.GetPathogen)
		})
		r.Post("/assessments", h.CreateAssessment)
		r.Post("/assessments/batch", h.CreateBatch)
		r.Post("/dose-response/{pathogen}/dose-for-risk", h.DoseForRisk)
	})

	return r
}

// requestLogger logs one line per request.
func requestLogger(logger *internal.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Zerolog().Info().
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
