package audit

import (
	"context"

	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

// LogSink writes audit events to the structured log. Used for local runs
// where no kafka broker is available.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log.WithFields(logger.String("component", "audit"))}
}

func (s *LogSink) Record(_ context.Context, e Event) error {
	s.log.Info("audit",
		logger.String("id", e.ID),
		logger.String("username", e.Username),
		logger.String("action", e.Action),
		logger.String("info", e.Info),
	)
	return nil
}

func (s *LogSink) Close(context.Context) error {
	return nil
}
