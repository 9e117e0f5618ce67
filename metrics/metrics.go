// Package metrics runs the Prometheus sidecar server and defines the
// service's counters.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RegistrationsTotal counts successful account registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vault_registrations_total",
		Help: "Number of successfully registered accounts.",
	})

	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_logins_total",
		Help: "Number of login attempts by outcome.",
	}, []string{"outcome"})

	// ObjectOpsTotal counts encrypted object operations by verb.
	ObjectOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_object_operations_total",
		Help: "Number of encrypted object operations by verb.",
	}, []string{"op"})
)

// MetricsServer serves the Prometheus scrape endpoint on its own listener,
// kept off the public API address.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server for the given listen address.
func New(name, addr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}, nil
}

// ListenAndServe blocks serving the scrape endpoint.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
