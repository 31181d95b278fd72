package thumbnailer

import (
	"context"
	"log/slog"
)

// NoopNotifier is a no-operation implementation of Notifier.
// Useful when notifications are disabled or for testing.
type NoopNotifier struct{}

// NewNoopNotifier creates a new no-operation notifier
func NewNoopNotifier() Notifier {
	return &NoopNotifier{}
}

// Publish does nothing and returns nil
func (n *NoopNotifier) Publish(ctx context.Context, event NotificationEvent) error {
	return nil
}

// LoggingNotifier is a notifier that logs events but takes no other
// action. Useful for development and debugging.
type LoggingNotifier struct {
	logger *slog.Logger
}

// NewLoggingNotifier creates a new logging notifier
func NewLoggingNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingNotifier{logger: logger}
}

// Publish logs the notification event
func (l *LoggingNotifier) Publish(ctx context.Context, event NotificationEvent) error {
	l.logger.Info("processing notification",
		"run_id", event.Result.RunID,
		"source_key", event.Result.Source.Key,
		"status", event.Result.Status,
		"failure_reason", event.Result.FailureReason)
	return nil
}
