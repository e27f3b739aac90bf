package model

import (
	"context"
	"time"
)

// DefaultMaxAssociatedEmails caps the number of emails per user.
const DefaultMaxAssociatedEmails = 5

// EmailStore defines persistence operations for email addresses.
type EmailStore interface {
	Create(ctx context.Context, email EmailAddress) (EmailAddress, error)
	GetByID(ctx context.Context, id int64) (EmailAddress, error)
	GetByAddress(ctx context.Context, address string) (EmailAddress, error)
	ListByUser(ctx context.Context, userID int64) ([]EmailAddress, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	IsTaken(ctx context.Context, address string) (bool, error)
	MarkVerified(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// EmailAddress is an email associated with a user.
type EmailAddress struct {
	ID         int64
	UserID     int64
	Email      string
	IsPrimary  bool
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
