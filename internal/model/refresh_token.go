package model

import (
	"context"
	"time"
)

// RefreshTokenStore keeps at most one refresh token per user.
type RefreshTokenStore interface {
	Get(ctx context.Context, userID int64, token string) (RefreshToken, error)
	GetByUser(ctx context.Context, userID int64) (RefreshToken, error)
	// Upsert stores token for the user, replacing any previous one.
	Upsert(ctx context.Context, userID int64, token string) (RefreshToken, error)
	Delete(ctx context.Context, userID int64) error
}

// RefreshToken is an opaque long-lived credential bound to one user.
type RefreshToken struct {
	UserID    int64
	Token     string
	CreatedAt time.Time
}
