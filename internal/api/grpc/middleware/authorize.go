package middleware

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/authcore/internal/guard"
	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/model"
)

// Authorize is a unary interceptor that checks the caller's grants against
// the operation policy.
type Authorize struct {
	policy         guard.Policy
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthorize creates a new Authorize middleware.
func NewAuthorize(policy guard.Policy, contextManager model.ContextManager, logger *logger.Logger) *Authorize {
	return &Authorize{policy: policy, contextManager: contextManager, logger: logger}
}

// HandleGRPC rejects calls the policy does not allow. Undeclared methods are
// always rejected.
func (a *Authorize) HandleGRPC(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	claims, ok := a.contextManager.GetClaimsFromContext(ctx)
	if a.policy.Allow(info.FullMethod, claims) {
		return handler(ctx, req)
	}

	if !ok {
		a.logger.Info("Authorize middleware: unauthenticated call",
			"method", info.FullMethod)
		return nil, status.Error(codes.Unauthenticated, "missing authorization token")
	}

	a.logger.Warn("Authorize middleware: permission denied",
		"method", info.FullMethod,
		"user_id", claims.UserID)
	return nil, status.Error(codes.PermissionDenied, "insufficient permissions")
}
