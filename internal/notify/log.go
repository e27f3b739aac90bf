// Package notify implements model.NotificationSender.
package notify

import (
	"context"

	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
)

var _ model.NotificationSender = (*LogSender)(nil)

// LogSender writes links to the log instead of delivering them.
type LogSender struct {
	logger *logger.Logger
}

func NewLogSender(logger *logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendVerificationEmail(_ context.Context, to, username, link string) error {
	s.logger.Info("Notify: verification email",
		"to", to,
		"username", username,
		"link", link)
	return nil
}

func (s *LogSender) SendPasswordResetEmail(_ context.Context, to, username, link string) error {
	s.logger.Info("Notify: password reset email",
		"to", to,
		"username", username,
		"link", link)
	return nil
}
