package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHandlerServesRegisteredCollector(t *testing.T) {
	r := New()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dagflow_metrics_test_total",
		Help: "exercises Registry.Handler end to end",
	})
	if err := r.Registerer().Register(counter); err != nil {
		t.Fatalf("Register: %v", err)
	}
	counter.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "dagflow_metrics_test_total 1") {
		t.Fatalf("expected scraped body to contain the counter, got:\n%s", rec.Body.String())
	}
}

func TestGathererReflectsRegisterer(t *testing.T) {
	r := New()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "dagflow_metrics_test_gauge"})
	gauge.Set(3)
	if err := r.Registerer().Register(gauge); err != nil {
		t.Fatalf("Register: %v", err)
	}

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "dagflow_metrics_test_gauge" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the registered gauge to appear in Gather output")
	}
}
