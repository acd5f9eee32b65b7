package console

import (
	"context"

	charmlog "github.com/charmbracelet/log"
)

// Telemetry records console events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// LogTelemetry writes console events as structured log lines.
type LogTelemetry struct {
	Logger *charmlog.Logger
}

// Record logs the event with its payload as key/value pairs.
func (t LogTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	if t.Logger == nil {
		return
	}
	keyvals := make([]any, 0, len(payload)*2)
	for k, v := range payload {
		keyvals = append(keyvals, k, v)
	}
	t.Logger.Info(event, keyvals...)
}
