// Package guard decides whether a caller may invoke an operation.
package guard

import (
	"github.com/dtroode/authcore/internal/permission"
	"github.com/dtroode/authcore/internal/token"
)

// Operation declares the access rules of one operation.
type Operation struct {
	// Public operations are allowed without claims.
	Public bool
	// Required pairs must all be granted. Empty means any authenticated caller.
	Required []permission.Permission
}

// Allow reports whether claims satisfy op.
func Allow(claims *token.Claims, op Operation) bool {
	if op.Public {
		return true
	}
	if claims == nil {
		return false
	}
	return permission.IsAuthorized(claims.Permissions, op.Required)
}

// Policy maps operation names to their declarations.
type Policy map[string]Operation

// Lookup returns the declaration for name.
func (p Policy) Lookup(name string) (Operation, bool) {
	op, ok := p[name]
	return op, ok
}

// IsPublic reports whether name is declared public.
func (p Policy) IsPublic(name string) bool {
	op, ok := p[name]
	return ok && op.Public
}

// Allow reports whether claims may invoke name. Undeclared operations are denied.
func (p Policy) Allow(name string, claims *token.Claims) bool {
	op, ok := p[name]
	if !ok {
		return false
	}
	return Allow(claims, op)
}
