package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/aora/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, common.ErrAuth):
		code = codes.Unauthenticated
	case errors.Is(err, common.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrInvalidArgument):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrAlreadyExists):
		code = codes.AlreadyExists
	case errors.Is(err, common.ErrRateLimited):
		code = codes.ResourceExhausted
	case errors.Is(err, common.ErrUnavailable):
		code = codes.Unavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
