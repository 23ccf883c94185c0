package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"txtransform/service"
)

const (
	defaultWSMaxMessage  = 8 << 20
	defaultWSMaxInFlight = 4
)

// Option tunes the handlers built by RegisterRoutes.
type Option func(*handler)

// WithWSLimits caps the size of a single websocket message and the number of
// transforms a connection may run at once. Values below 1 keep the default.
func WithWSLimits(maxMessage int64, maxInFlight int) Option {
	return func(h *handler) {
		if maxMessage > 0 {
			h.wsMaxMessage = maxMessage
		}
		if maxInFlight > 0 {
			h.wsMaxInFlight = maxInFlight
		}
	}
}

// RegisterRoutes builds the HTTP boundary API around svc. When gatherer is
// nil the /metrics endpoint is not mounted.
func RegisterRoutes(svc *service.Service, gatherer prometheus.Gatherer, logger zerolog.Logger, opts ...Option) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	h := &handler{
		svc:           svc,
		log:           logger,
		wsMaxMessage:  defaultWSMaxMessage,
		wsMaxInFlight: defaultWSMaxInFlight,
	}
	for _, opt := range opts {
		opt(h)
	}

	// Presets API
	r.Get("/api/presets", h.getPresets)
	r.Post("/api/presets", h.addPreset)
	r.Put("/api/presets", h.putPresets)
	r.Delete("/api/presets/{name}", h.deletePreset)

	// Pipeline runs
	r.Post("/api/transform", h.transform)
	r.Get("/api/transform/ws", h.handleWS)
	r.Get("/api/runs", h.listRuns)
	r.Delete("/api/runs/{id}", h.cancelRun)

	r.Get("/api/transformers", h.listTransformers)
	r.Get("/api/config", h.getConfig)
	r.Put("/api/config", h.putConfig)

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type handler struct {
	svc *service.Service
	log zerolog.Logger

	wsMaxMessage  int64
	wsMaxInFlight int
}
