package model

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned by stores on a uniqueness violation.
var ErrAlreadyExists = errors.New("already exists")

// Repositories groups the stores bound to one connection or transaction.
type Repositories interface {
	Users() UserStore
	Passwords() PasswordStore
	RefreshTokens() RefreshTokenStore
	Roles() RoleStore
	Emails() EmailStore
}

// CredentialStore is the persistence collaborator of the auth services.
// WithinTx runs fn against transaction-scoped repositories and commits
// only when fn returns nil.
type CredentialStore interface {
	Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error
}
