package push

import (
	"context"

	"go.uber.org/zap"
)

// LogSender logs messages instead of delivering them. Used in static auth
// mode, where no Firebase app exists.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send records the message and reports success.
func (s *LogSender) Send(_ context.Context, token, title, body string, _ map[string]string) error {
	s.logger.Info("push suppressed (log sender)",
		zap.String("token", token),
		zap.String("title", title),
		zap.String("body", body),
	)
	return nil
}
