// Package httpapi wires the public HTTP surface.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cataloghandler "stocktag/internal/catalog/handler"
	"stocktag/internal/platform/metrics"
	"stocktag/internal/platform/middleware"
	trackinghandler "stocktag/internal/tracking/handler"
)

// NewRouter assembles the middleware chain and mounts every endpoint.
func NewRouter(
	tracking *trackinghandler.Handler,
	catalog *cataloghandler.Handler,
	m *metrics.Metrics,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	tracking.Register(r)
	catalog.Register(r)

	return r
}
