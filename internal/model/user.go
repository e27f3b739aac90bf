package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users and accounts.
type UserStore interface {
	CreateAccount(ctx context.Context, name string) (Account, error)
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByProvider(ctx context.Context, provider, providerID string) (User, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName *string) (User, error)
	MarkVerified(ctx context.Context, id int64) error
}

// Account is the tenant that owns users and roles.
type Account struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// User represents a stored user.
type User struct {
	ID         int64
	AccountID  int64
	Username   string
	FirstName  *string
	LastName   *string
	IsVerified bool
	IsBlocked  bool
	IsDeleted  bool
	Provider   *string
	ProviderID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Active reports whether the user may authenticate.
func (u User) Active() bool {
	return !u.IsBlocked && !u.IsDeleted
}

// ExternalProfile is the identity returned by an SSO provider.
type ExternalProfile struct {
	Provider   string
	ExternalID string
	Username   string
	Email      string
	FirstName  string
	LastName   string
}
