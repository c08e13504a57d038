// Package metrics wires github.com/prometheus/client_golang directly:
// it owns the Registry the embedding application scrapes, and the
// sibling telemetry package's otel-Prometheus bridge registers its
// instruments into it instead of client_golang's process-global
// DefaultRegisterer. This keeps every dagflow metric reachable from
// one Registry even though the instruments themselves are recorded
// through the otel API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds a dedicated client_golang registry for dagflow's
// metrics, separate from prometheus.DefaultRegisterer so embedding a
// dagflow run inside a larger process never collides with that
// process's own metric names.
type Registry struct {
	reg *prometheus.Registry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{reg: prometheus.NewRegistry()}
}

// Registerer exposes the client_golang Registerer the otel-Prometheus
// exporter's WithRegisterer option expects.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.reg
}

// Gatherer exposes the client_golang Gatherer backing Handler, for
// callers that want to fold this registry's series into a larger
// scrape endpoint themselves.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns the standard client_golang scrape endpoint for this
// registry. The caller mounts it on its own HTTP mux; this package
// never starts a server itself (out of scope for the engine).
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
