// Package tokens declares the token ledger contract: mints, token accounts
// and signed, atomic transfers between accounts.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type Repository interface {
	CreateMint(ctx context.Context, m *models.Mint) error
	GetMint(ctx context.Context, mint address.Address) (*models.Mint, error)

	// CreateAccount opens a zero-balance account. Amount on a is ignored.
	CreateAccount(ctx context.Context, a *models.TokenAccount) error
	GetAccount(ctx context.Context, account address.Address) (*models.TokenAccount, error)

	// MintTo credits amount new units to account. authority must prove the
	// mint authority.
	MintTo(ctx context.Context, account address.Address, amount int64, authority address.Signer) error

	// Transfer moves amount from one account to another of the same mint.
	// signer must prove the owner of from. It fails closed: nothing moves
	// unless the whole transfer succeeds.
	Transfer(ctx context.Context, from, to address.Address, amount int64, signer address.Signer) error
}
