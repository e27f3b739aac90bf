package context

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"
)

// Metadata keys read from incoming requests.
const (
	AuthorizationKey = "authorization"
	RefreshTokenKey  = "x-refresh-token"
	RequestIDKey     = "x-request-id"
	SSOSecretKey     = "x-sso-secret"
)

// MetadataValue returns the first incoming metadata value for key.
func MetadataValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

// BearerToken returns the token of an "authorization: Bearer <token>" header.
func BearerToken(ctx context.Context) string {
	header := MetadataValue(ctx, AuthorizationKey)
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
