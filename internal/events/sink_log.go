package events

import (
	"context"
	"log/slog"
)

// LogSink writes events to the structured log. Default when no broker is
// configured, so notifications stay observable in single-node deployments.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, payload []byte) error {
	s.logger.InfoContext(ctx, "event", "payload", string(payload))
	return nil
}
