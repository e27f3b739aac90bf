package model

import (
	"context"
	"time"
)

// DefaultPasswordHistoryLimit bounds how many previous credentials are kept per user.
const DefaultPasswordHistoryLimit = 5

// PasswordStore defines persistence operations for credentials and their history.
type PasswordStore interface {
	Get(ctx context.Context, userID int64) (Credential, error)
	Create(ctx context.Context, userID int64, cred Credential) error
	Delete(ctx context.Context, userID int64) error
	AddHistory(ctx context.Context, userID int64, cred Credential, limit int) error
	GetHistory(ctx context.Context, userID int64, limit int) ([]Credential, error)
}

// Credential is a hashed password. It is never mutated; a password change
// replaces it and moves the old value into history.
type Credential struct {
	Hash          string
	Salt          string
	Iterations    int
	Digest        string
	Algorithm     string
	PepperVersion string
	CreatedAt     time.Time
}
