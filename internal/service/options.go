package service

import (
	"time"

	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/token"
)

// Options carries the policy knobs the services are constructed with.
type Options struct {
	// VerificationRequired blocks login and refresh for unverified users.
	VerificationRequired bool
	// VerificationHost prefixes email verification links.
	VerificationHost string
	// MaxAssociatedEmails caps emails per user.
	MaxAssociatedEmails int
	// ResetPageURL is the page password reset links point to.
	ResetPageURL string
	// HistoryLimit is how many previous passwords block reuse.
	HistoryLimit int
}

func (o Options) withDefaults() Options {
	if o.MaxAssociatedEmails <= 0 {
		o.MaxAssociatedEmails = model.DefaultMaxAssociatedEmails
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = model.DefaultPasswordHistoryLimit
	}
	return o
}

type PasswordHasher interface {
	Hash(password string) (model.Credential, error)
	Verify(password string, cred model.Credential) (bool, error)
	NeedsRehash(cred model.Credential) bool
}

type TokenCodec interface {
	Sign(claims token.Claims, ttl ...time.Duration) (string, error)
	Verify(tokenString string) (*token.Token, error)
	Decode(tokenString string) (*token.Token, error)
}
