package middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/authcore/internal/logger"
	"github.com/dtroode/authcore/internal/testutil"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	lg := NewLogging(testutil.MakeNoopLogger())

	tests := []struct {
		name     string
		handler  grpc.UnaryHandler
		wantCode codes.Code
	}{
		{
			name: "success path",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				time.Sleep(10 * time.Millisecond)
				return "ok", nil
			},
			wantCode: codes.OK,
		},
		{
			name: "grpc error propagates",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, status.Error(codes.InvalidArgument, "bad input")
			},
			wantCode: codes.InvalidArgument,
		},
		{
			name: "non-grpc error becomes Internal",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, errors.New("boom")
			},
			wantCode: codes.Internal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}
			resp, err := lg.HandleGRPC(context.Background(), struct{}{}, info, tt.handler)

			if tt.wantCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "ok", resp)
				return
			}

			st, ok := status.FromError(err)
			gotCode := codes.Internal
			if ok {
				gotCode = st.Code()
			}
			assert.Equal(t, tt.wantCode, gotCode)
		})
	}
}

func TestLogging_RequestAttributes(t *testing.T) {
	t.Parallel()

	ok := func(ctx context.Context, req interface{}) (interface{}, error) { return "ok", nil }
	info := &grpc.UnaryServerInfo{FullMethod: "/authcore.v1.Auth/Login"}

	t.Run("request id from metadata", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		lg := NewLogging(logger.NewWithWriter(&buf, 0))

		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "req-123"))
		_, err := lg.HandleGRPC(ctx, struct{}{}, info, ok)

		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "request_id=req-123")
		assert.Contains(t, buf.String(), "method=/authcore.v1.Auth/Login")
		assert.NotContains(t, buf.String(), "trace_id=")
	})

	t.Run("generated request id and trace id", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		lg := NewLogging(logger.NewWithWriter(&buf, 0))

		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{0x0a, 0x0b},
			SpanID:     trace.SpanID{0x01},
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)
		_, err := lg.HandleGRPC(ctx, struct{}{}, info, ok)

		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "request_id=")
		assert.NotContains(t, buf.String(), "request_id= ")
		assert.Contains(t, buf.String(), "trace_id="+sc.TraceID().String())
	})
}
