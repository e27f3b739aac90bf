package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
)

// Message kinds, also used as the object key prefix.
const (
	KindVerification  = "verification"
	KindPasswordReset = "password-reset"
)

const contentType = "application/json"

// Message is the spooled form of an outgoing email. A mail relay picks the
// objects up from storage and delivers them.
type Message struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	To        string    `json:"to"`
	Username  string    `json:"username"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

var _ model.NotificationSender = (*SpoolSender)(nil)

// SpoolSender uploads each message as a JSON object.
type SpoolSender struct {
	storage model.ObjectStorage
	logger  *logger.Logger
	now     func() time.Time
}

func NewSpoolSender(storage model.ObjectStorage, logger *logger.Logger) *SpoolSender {
	return &SpoolSender{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *SpoolSender) SendVerificationEmail(ctx context.Context, to, username, link string) error {
	return s.spool(ctx, KindVerification, to, username, link)
}

func (s *SpoolSender) SendPasswordResetEmail(ctx context.Context, to, username, link string) error {
	return s.spool(ctx, KindPasswordReset, to, username, link)
}

func (s *SpoolSender) spool(ctx context.Context, kind, to, username, link string) error {
	msg := Message{
		ID:        uuid.NewString(),
		Kind:      kind,
		To:        to,
		Username:  username,
		Link:      link,
		CreatedAt: s.now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", kind, err)
	}

	key := kind + "/" + msg.ID + ".json"
	if err := s.storage.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), contentType); err != nil {
		s.logger.Error("Notify: failed to spool message",
			"kind", kind,
			"key", key,
			"error", err.Error())
		return fmt.Errorf("failed to spool %s message: %w", kind, err)
	}

	s.logger.Debug("Notify: message spooled",
		"kind", kind,
		"key", key)
	return nil
}
