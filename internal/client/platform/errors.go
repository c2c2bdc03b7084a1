package platform

import (
	"fmt"

	"github.com/dmitrijs2005/aora/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mapError converts a gRPC status into the common sentinels. Every result
// except ErrAuth and ErrNotFound also matches common.ErrRemote.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", common.ErrRemote, err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", common.ErrAuth, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %w: %s", common.ErrRemote, common.ErrInvalidArgument, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", common.ErrAlreadyExists, st.Message())
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", common.ErrRateLimited, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("%w: rpc error: %s: %s", common.ErrRemote, st.Code(), st.Message())
	}
}
