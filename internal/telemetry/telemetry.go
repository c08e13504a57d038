// Package telemetry wires OpenTelemetry metrics and tracing, exported
// through a Prometheus registry the embedding application can scrape.
// A nil *Provider is always a valid, no-op argument: telemetry is
// observability, never a precondition for running a graph.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"

	"github.com/basicinsect/dagflow/internal/telemetry/metrics"
)

const (
	serviceName = "dagflow"

	metricRunExecutions  = "dagflow.run.executions.total"
	metricRunDuration    = "dagflow.run.duration"
	metricRunSuccess     = "dagflow.run.success.total"
	metricRunFailure     = "dagflow.run.failure.total"
	metricNodeExecutions = "dagflow.node.executions.total"
	metricNodeDuration   = "dagflow.node.execution.duration"
	metricNodeSkipped    = "dagflow.node.skipped.total"
	metricNodeFailure    = "dagflow.node.failure.total"
)

// Provider holds the meter/tracer pair and the metric instruments the
// executor records against. Build one with NewProvider and pass it to
// executor.Run; pass nil to disable telemetry entirely.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	runExecutions  metric.Int64Counter
	runDuration    metric.Float64Histogram
	runSuccess     metric.Int64Counter
	runFailure     metric.Int64Counter
	nodeExecutions metric.Int64Counter
	nodeDuration   metric.Float64Histogram
	nodeSkipped    metric.Int64Counter
	nodeFailure    metric.Int64Counter

	mu sync.RWMutex
}

// Config configures a Provider.
type Config struct {
	ServiceName    string
	ServiceVersion string
	EnableTracing  bool
	EnableMetrics  bool

	// Registry, if set, is the client_golang registry the
	// otel-Prometheus bridge registers its instruments into. A nil
	// Registry falls back to prometheus.DefaultRegisterer, the
	// exporter's own default.
	Registry *metrics.Registry
}

// DefaultConfig enables both tracing and metrics under the service
// name "dagflow", collecting into a fresh metrics.Registry.
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		EnableTracing:  true,
		EnableMetrics:  true,
		Registry:       metrics.New(),
	}
}

// NewProvider builds a Provider backed by the otel-Prometheus bridge.
// The instruments are collected into cfg.Registry; the caller mounts
// that registry's Handler on an HTTP mux, if any — this package never
// starts a server (out of scope for the engine).
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	p := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	if cfg.EnableMetrics {
		if err := p.initMetrics(res, cfg.Registry); err != nil {
			return nil, fmt.Errorf("telemetry: init metrics: %w", err)
		}
	}
	if cfg.EnableTracing {
		p.tracerProvider = otel.GetTracerProvider()
		p.tracer = p.tracerProvider.Tracer(serviceName)
	}
	return p, nil
}

func (p *Provider) initMetrics(res *resource.Resource, reg *metrics.Registry) error {
	opts := []prometheus.Option{}
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg.Registerer()))
	}
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return fmt.Errorf("create prometheus exporter: %w", err)
	}
	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	p.meter = p.meterProvider.Meter(serviceName)
	return p.createInstruments()
}

func (p *Provider) createInstruments() error {
	var err error
	if p.runExecutions, err = p.meter.Int64Counter(metricRunExecutions, metric.WithDescription("Total number of graph runs")); err != nil {
		return err
	}
	if p.runDuration, err = p.meter.Float64Histogram(metricRunDuration, metric.WithDescription("Run duration"), metric.WithUnit("ms")); err != nil {
		return err
	}
	if p.runSuccess, err = p.meter.Int64Counter(metricRunSuccess, metric.WithDescription("Total number of successful runs")); err != nil {
		return err
	}
	if p.runFailure, err = p.meter.Int64Counter(metricRunFailure, metric.WithDescription("Total number of failed runs")); err != nil {
		return err
	}
	if p.nodeExecutions, err = p.meter.Int64Counter(metricNodeExecutions, metric.WithDescription("Total number of node computations")); err != nil {
		return err
	}
	if p.nodeDuration, err = p.meter.Float64Histogram(metricNodeDuration, metric.WithDescription("Node compute duration"), metric.WithUnit("ms")); err != nil {
		return err
	}
	if p.nodeSkipped, err = p.meter.Int64Counter(metricNodeSkipped, metric.WithDescription("Total number of nodes skipped by branch gating")); err != nil {
		return err
	}
	if p.nodeFailure, err = p.meter.Int64Counter(metricNodeFailure, metric.WithDescription("Total number of node compute failures")); err != nil {
		return err
	}
	return nil
}

// Tracer returns the provider's tracer, or nil if tracing is disabled.
func (p *Provider) Tracer() trace.Tracer {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// RecordRun records one run's outcome and wall-clock duration.
func (p *Provider) RecordRun(ctx context.Context, runID string, duration time.Duration, success bool, nodeCount int) {
	if p == nil || p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("run.id", runID),
		attribute.Int("run.node_count", nodeCount),
	}
	p.runExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.runDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if success {
		p.runSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.runFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordNode records the outcome of one node's task: "completed",
// "skipped", or "failed".
func (p *Provider) RecordNode(ctx context.Context, nodeType string, duration time.Duration, outcome string) {
	if p == nil || p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("node.type", nodeType)}
	p.nodeExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.nodeDuration.Record(ctx, float64(duration.Microseconds())/1000.0, metric.WithAttributes(attrs...))
	switch outcome {
	case "skipped":
		p.nodeSkipped.Add(ctx, 1, metric.WithAttributes(attrs...))
	case "failed":
		p.nodeFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// Shutdown flushes and releases the underlying meter provider, if any.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("telemetry: shutdown: %w", err)
		}
	}
	return nil
}
