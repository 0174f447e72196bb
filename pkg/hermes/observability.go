// Package hermes carries word of what the judges decide. It defines the
// narrow logging and metrics surfaces the rest of minos emits through,
// with slog and Prometheus adapters plus no-op stand-ins for tests.
package hermes

import "context"

type Label struct {
	Key   string
	Value string
}

type Metrics interface {
	IncCounter(name string, value float64, labels ...Label)
	ObserveHistogram(name string, value float64, labels ...Label)
	SetGauge(name string, value float64, labels ...Label)
}

// Logger is the minimal leveled surface the library needs. Debug exists
// because swallowed resolution failures still have to leave a trace.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]any)
	Info(ctx context.Context, msg string, fields map[string]any)
	Error(ctx context.Context, msg string, fields map[string]any)
}
