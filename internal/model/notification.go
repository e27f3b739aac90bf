package model

import "context"

// NotificationSender delivers out-of-band messages to users.
type NotificationSender interface {
	SendVerificationEmail(ctx context.Context, to, username, link string) error
	SendPasswordResetEmail(ctx context.Context, to, username, link string) error
}
