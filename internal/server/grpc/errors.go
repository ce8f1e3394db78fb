package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/buidlvault/internal/api"
	"google.golang.org/grpc/status"
)

// toStatusError maps handler errors to gRPC statuses. Domain errors keep
// their code in the status details; anything unrecognised becomes Internal.
func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	return api.Status(err).Err()
}
