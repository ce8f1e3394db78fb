// Package common defines shared constants and sentinel errors used across
// the buidlvault server, its transport and its client package. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrLabelTooLong    = errors.New("label too long")
	ErrInvalidDuration = errors.New("duration must not be negative")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrMintMismatch    = errors.New("mint mismatch")

	// Ledger and voting errors.
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAmountOverflow     = errors.New("balance would exceed the maximum amount")
	ErrAlreadyVoted       = errors.New("already voted in this direction")
	ErrProposalNotOver    = errors.New("proposal voting period is not over")
	ErrProposalClosed     = errors.New("proposal voting period has ended")
	ErrProposalReleased   = errors.New("proposal funds already released")
	ErrRecipientMismatch  = errors.New("recipient does not match proposal")
	ErrDerivationMismatch = errors.New("address derivation mismatch")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSignature = errors.New("invalid signature")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrChallengeExpired    = errors.New("challenge expired")
)
