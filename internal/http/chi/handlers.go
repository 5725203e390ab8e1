package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"github.com/deskbridge/deskbridge/consumer"
	"github.com/deskbridge/deskbridge/metrics"
)

// StatusReporter is what the admin surface needs from the consumer
type StatusReporter interface {
	Status() consumer.Status
	HealthCheck(ctx context.Context) consumer.Health
}

// Handlers sets up the admin API routes
func Handlers(ctx context.Context, reporter StatusReporter, collector metrics.Collector, metricsHandler http.Handler) *chi.Mux {
	logger := httplog.NewLogger("deskbridge-admin", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", getHealth(reporter).ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", getStatus(reporter, collector).ServeHTTP)
	})

	r.Method(http.MethodGet, "/metrics", metricsHandler)

	return r
}

func getHealth(reporter StatusReporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		health := reporter.HealthCheck(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if health.State == consumer.Unhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(health); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

type statusResponse struct {
	Consumer consumer.Status  `json:"consumer"`
	Metrics  *metrics.Metrics `json:"metrics,omitempty"`
}

func getStatus(reporter StatusReporter, collector metrics.Collector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := statusResponse{Consumer: reporter.Status()}

		if collector != nil {
			m, err := collector.Collect(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			resp.Metrics = &m
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
