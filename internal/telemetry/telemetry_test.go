package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestNilProviderRecordIsNoop(t *testing.T) {
	var p *Provider
	p.RecordRun(context.Background(), "run-1", time.Millisecond, true, 3)
	p.RecordNode(context.Background(), "AddNumber", time.Microsecond, "completed")
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("nil provider Shutdown: %v", err)
	}
}

func TestNewProviderBuildsInstruments(t *testing.T) {
	p, err := NewProvider(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Tracer() == nil {
		t.Fatal("expected a non-nil tracer when tracing is enabled")
	}
	p.RecordRun(context.Background(), "run-1", time.Millisecond, true, 1)
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
