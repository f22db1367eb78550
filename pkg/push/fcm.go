// Package push delivers notifications to device tokens via Firebase Cloud
// Messaging. Delivery is best-effort; callers treat failures as non-fatal.
package push

import (
	"context"
	"fmt"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMSender sends push messages through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
	logger *zap.Logger
}

// NewFCMSender builds a sender from the shared Firebase app.
func NewFCMSender(ctx context.Context, app *fb.App, logger *zap.Logger) (*FCMSender, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init fcm client: %w", err)
	}
	return &FCMSender{client: client, logger: logger}, nil
}

// Send delivers one message to one device token.
func (s *FCMSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Token: token,
		Data:  data,
	}

	id, err := s.client.Send(ctx, msg)
	if err != nil {
		return err
	}

	s.logger.Debug("push delivered", zap.String("message_id", id))
	return nil
}
