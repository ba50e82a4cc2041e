package internal

import (
	"context"
	"sync"
)

// Lightweight telemetry hook layer for the hydration pipeline. Callers may
// register a real emitter (or a test stub) via RegisterTelemetryEmitter; by
// default the emitter is a no-op, avoiding any hard dependency on a metrics
// SDK.

type telemetryEmitter func(ctx context.Context, name string, labels map[string]string, value any)

var (
	teleMu   sync.Mutex
	teleImpl telemetryEmitter = func(ctx context.Context, name string, labels map[string]string, value any) {
		// noop by default
	}
)

// RegisterTelemetryEmitter registers a custom emitter function. Service
// wiring can provide a metrics-backed emitter or a test meter.
func RegisterTelemetryEmitter(fn telemetryEmitter) {
	teleMu.Lock()
	defer teleMu.Unlock()
	if fn == nil {
		teleImpl = func(ctx context.Context, name string, labels map[string]string, value any) {}
		return
	}
	teleImpl = fn
}

// EmitLatency records a latency measure (milliseconds) for a named stage.
// Stages: "resolve", "fetch", "assemble".
func EmitLatency(ctx context.Context, stage string, ms int64) {
	teleMu.Lock()
	fn := teleImpl
	teleMu.Unlock()
	fn(ctx, "hydration_latency_ms", map[string]string{"stage": stage}, ms)
}

// EmitRowCount records row counts per source table.
func EmitRowCount(ctx context.Context, table string, rows int64) {
	teleMu.Lock()
	fn := teleImpl
	teleMu.Unlock()
	fn(ctx, "hydration_row_count", map[string]string{"table": table}, rows)
}
