package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	grpcctx "github.com/dtroode/authcore/internal/api/grpc/context"
	"github.com/dtroode/authcore/internal/logger"
)

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC logs method name, duration and status for each unary request.
// The request id is taken from x-request-id metadata or generated, and is
// echoed back in the response header.
func (l *Logging) HandleGRPC(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()

	requestID := grpcctx.MetadataValue(ctx, grpcctx.RequestIDKey)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	// Fails only outside a server transport, e.g. in unit tests.
	_ = grpc.SetHeader(ctx, metadata.Pairs(grpcctx.RequestIDKey, requestID))

	log := l.logger.With("request_id", requestID, "method", info.FullMethod)
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		log = log.With("trace_id", sc.TraceID().String())
	}

	log.Info("gRPC request started",
		"start_time", start.Format(time.RFC3339))

	resp, err := handler(ctx, req)

	duration := time.Since(start)

	statusCode := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			statusCode = st.Code()
		} else {
			statusCode = codes.Internal
		}
	}

	log.Info("gRPC request completed",
		"duration_ms", duration.Milliseconds(),
		"status", statusCode.String())

	if err != nil {
		log.Error("gRPC request failed",
			"error", err.Error(),
			"status", statusCode.String())
	}

	return resp, err
}
