package context

import (
	"context"

	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/token"
)

type claimsKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager stores verified claims in a request context.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetClaimsToContext returns a context carrying claims.
func (m *Manager) SetClaimsToContext(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaimsFromContext returns the claims set by SetClaimsToContext.
// Contexts without claims, or with nil claims, report false.
func (m *Manager) GetClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*token.Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}
