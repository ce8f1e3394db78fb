package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestCodeOf_RoundTrip(t *testing.T) {
	for _, ce := range codeErrors {
		wrapped := fmt.Errorf("layer: %w", ce.err)
		assert.Equal(t, ce.code, CodeOf(wrapped))
		assert.True(t, errors.Is(ErrorForCode(ce.code), ce.err))
	}
}

func TestCodeOf_Unknown(t *testing.T) {
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("boom")))
	assert.Nil(t, ErrorForCode(CodeUnknown))
}

func TestGRPCCode(t *testing.T) {
	tests := map[error]codes.Code{
		ErrInvalidAmount:      codes.InvalidArgument,
		ErrAmountOverflow:     codes.InvalidArgument,
		ErrLabelTooLong:       codes.InvalidArgument,
		ErrRecipientMismatch:  codes.InvalidArgument,
		ErrInsufficientFunds:  codes.FailedPrecondition,
		ErrAlreadyVoted:       codes.FailedPrecondition,
		ErrProposalNotOver:    codes.FailedPrecondition,
		ErrProposalReleased:   codes.FailedPrecondition,
		ErrDerivationMismatch: codes.PermissionDenied,
		ErrorUnauthorized:     codes.Unauthenticated,
		ErrTokenExpired:       codes.Unauthenticated,
		ErrorNotFound:         codes.NotFound,
		ErrVersionConflict:    codes.Aborted,
		ErrorInternal:         codes.Internal,
	}
	for err, want := range tests {
		assert.Equal(t, want, CodeOf(err).GRPCCode(), err.Error())
	}
}
