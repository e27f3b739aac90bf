package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/authcore/internal/apierrors"
	"github.com/dtroode/authcore/internal/model"
)

// handleError maps a service error to a gRPC status. Only client-safe
// messages leave the server.
func handleError(err error) error {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case apierrors.KindConfiguration, apierrors.KindUnknown:
			return status.Error(codes.Internal, "internal server error")
		default:
			return status.Error(apiErr.GRPCCode, apiErr.Message)
		}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
