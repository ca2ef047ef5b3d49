package geocode

import (
	"io"
	"log/slog"
)

// CallEvent records one geocoding request.
type CallEvent struct {
	Query     string
	Results   int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about geocoding calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes one structured line per call to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{logger: slog.New(slog.NewTextHandler(w, nil))}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"query", event.Query,
		"results", event.Results,
		"latency_ms", event.LatencyMs,
	}
	if event.Success {
		o.logger.Info("geocode_call", attrs...)
		return
	}
	o.logger.Error("geocode_call", append(attrs, "error_code", event.ErrorCode)...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
