package common

import (
	"errors"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code carried over the wire next to the
// gRPC status.
type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeVersionConflict    Code = "VERSION_CONFLICT"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInvalidAmount      Code = "INVALID_AMOUNT"
	CodeLabelTooLong       Code = "LABEL_TOO_LONG"
	CodeInvalidDuration    Code = "INVALID_DURATION"
	CodeInvalidAddress     Code = "INVALID_ADDRESS"
	CodeMintMismatch       Code = "MINT_MISMATCH"
	CodeInsufficientFunds  Code = "INSUFFICIENT_FUNDS"
	CodeAmountOverflow     Code = "AMOUNT_OVERFLOW"
	CodeAlreadyVoted       Code = "ALREADY_VOTED"
	CodeProposalNotOver    Code = "PROPOSAL_NOT_OVER"
	CodeProposalClosed     Code = "PROPOSAL_CLOSED"
	CodeProposalReleased   Code = "PROPOSAL_RELEASED"
	CodeRecipientMismatch  Code = "RECIPIENT_MISMATCH"
	CodeDerivationMismatch Code = "DERIVATION_MISMATCH"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeInvalidSignature   Code = "INVALID_SIGNATURE"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeRefreshExpired     Code = "REFRESH_TOKEN_EXPIRED"
	CodeChallengeExpired   Code = "CHALLENGE_EXPIRED"
)

var codeErrors = []struct {
	code Code
	err  error
}{
	{CodeNotFound, ErrorNotFound},
	{CodeVersionConflict, ErrVersionConflict},
	{CodeUnauthorized, ErrorUnauthorized},
	{CodeInvalidAmount, ErrInvalidAmount},
	{CodeLabelTooLong, ErrLabelTooLong},
	{CodeInvalidDuration, ErrInvalidDuration},
	{CodeInvalidAddress, ErrInvalidAddress},
	{CodeMintMismatch, ErrMintMismatch},
	{CodeInsufficientFunds, ErrInsufficientFunds},
	{CodeAmountOverflow, ErrAmountOverflow},
	{CodeAlreadyVoted, ErrAlreadyVoted},
	{CodeProposalNotOver, ErrProposalNotOver},
	{CodeProposalClosed, ErrProposalClosed},
	{CodeProposalReleased, ErrProposalReleased},
	{CodeRecipientMismatch, ErrRecipientMismatch},
	{CodeDerivationMismatch, ErrDerivationMismatch},
	{CodeInvalidToken, ErrInvalidToken},
	{CodeInvalidSignature, ErrInvalidSignature},
	{CodeTokenExpired, ErrTokenExpired},
	{CodeRefreshExpired, ErrRefreshTokenExpired},
	{CodeChallengeExpired, ErrChallengeExpired},
}

// CodeOf returns the code of the first known sentinel wrapped by err.
func CodeOf(err error) Code {
	for _, ce := range codeErrors {
		if errors.Is(err, ce.err) {
			return ce.code
		}
	}
	return CodeUnknown
}

// ErrorForCode returns the sentinel registered for c, or nil.
func ErrorForCode(c Code) error {
	for _, ce := range codeErrors {
		if ce.code == c {
			return ce.err
		}
	}
	return nil
}

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - bad input
	case CodeInvalidAmount,
		CodeAmountOverflow,
		CodeLabelTooLong,
		CodeInvalidDuration,
		CodeInvalidAddress,
		CodeMintMismatch,
		CodeRecipientMismatch:
		return codes.InvalidArgument

	// FailedPrecondition - ledger or proposal state does not allow the operation
	case CodeInsufficientFunds,
		CodeAlreadyVoted,
		CodeProposalNotOver,
		CodeProposalClosed,
		CodeProposalReleased:
		return codes.FailedPrecondition

	case CodeDerivationMismatch:
		return codes.PermissionDenied

	case CodeUnauthorized,
		CodeInvalidToken,
		CodeInvalidSignature,
		CodeTokenExpired,
		CodeRefreshExpired,
		CodeChallengeExpired:
		return codes.Unauthenticated

	case CodeNotFound:
		return codes.NotFound

	case CodeVersionConflict:
		return codes.Aborted

	default:
		return codes.Internal
	}
}
