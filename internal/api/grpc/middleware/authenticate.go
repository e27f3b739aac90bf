package middleware

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	grpcctx "github.com/dtroode/authcore/internal/api/grpc/context"
	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
	"github.com/dtroode/authcore/internal/token"
)

// Authenticator verifies a bearer access token.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*token.Claims, error)
}

// Authenticate validates bearer tokens and injects verified claims into context.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticator Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization metadata, verifies the token and returns
// a context with its claims.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	claims, authErr := m.authenticate(ctx, grpcctx.BearerToken(ctx))
	if authErr != nil {
		m.logger.Debug("Authenticate middleware: rejected request",
			"error", authErr.Error())
		return nil, status.Error(codes.Unauthenticated, authErr.Message)
	}

	return m.contextManager.SetClaimsToContext(ctx, claims), nil
}

func (m *Authenticate) authenticate(ctx context.Context, tokenString string) (*token.Claims, *apierrors.APIError) {
	if tokenString == "" {
		return nil, apierrors.NewErrMissingAuthorizationToken()
	}

	claims, err := m.authenticator.Authenticate(ctx, tokenString)
	if err != nil || claims == nil || claims.UserID == 0 {
		return nil, apierrors.NewErrInvalidAuthorizationToken()
	}

	return claims, nil
}
