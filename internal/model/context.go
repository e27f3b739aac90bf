package model

import (
	"context"

	"github.com/dtroode/authcore/internal/token"
)

// ContextManager carries verified claims through a request context.
type ContextManager interface {
	SetClaimsToContext(ctx context.Context, claims *token.Claims) context.Context
	GetClaimsFromContext(ctx context.Context) (*token.Claims, bool)
}
