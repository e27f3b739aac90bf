package middleware

import (
	"context"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/authcore/internal/logger"
)

// Recovery turns handler panics into Internal errors instead of crashing the server.
type Recovery struct {
	logger *logger.Logger
}

// NewRecovery creates a new Recovery middleware.
func NewRecovery(logger *logger.Logger) *Recovery {
	return &Recovery{logger: logger}
}

// HandleGRPC returns the unary interceptor.
func (r *Recovery) HandleGRPC() grpc.UnaryServerInterceptor {
	return recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(r.handlePanic))
}

func (r *Recovery) handlePanic(ctx context.Context, p any) error {
	r.logger.ErrorContext(ctx, "panic in gRPC handler", "panic", p, "stack", string(debug.Stack()))
	return status.Error(codes.Internal, "internal server error")
}
