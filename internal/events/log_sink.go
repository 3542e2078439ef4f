package events

import (
	"context"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"

	"github.com/Taichi-iskw/contentrepo/internal/log"
)

// LogSink writes one structured line per event
type LogSink struct {
	logger logSDK.Logger
}

// NewLogSink creates a LogSink; a nil logger uses the package logger
func NewLogSink(logger logSDK.Logger) *LogSink {
	if logger == nil {
		logger = log.Logger.Named("events")
	}
	return &LogSink{logger: logger}
}

// Emit implements Sink
func (s *LogSink) Emit(_ context.Context, event Event) error {
	s.logger.Info("content event",
		zap.String("event_id", event.ID),
		zap.String("name", string(event.Name)),
		zap.Int64("content_id", event.ContentID),
		zap.Int64s("file_ids", event.FileIDs),
		zap.Int64s("affected_ids", event.AffectedIDs),
		zap.Time("occurred_at", event.OccurredAt))
	return nil
}
