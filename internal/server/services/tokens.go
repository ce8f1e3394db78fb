package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

// TokenService fronts the token ledger that backs vaults and backer accounts.
type TokenService struct {
	env Env
}

func NewTokenService(env Env) *TokenService {
	return &TokenService{env: env.withDefaults("tokens")}
}

// CreateMint registers a new asset type. The caller becomes its authority.
func (s *TokenService) CreateMint(ctx context.Context, caller address.Address, decimals uint8) (*models.Mint, error) {
	m := &models.Mint{
		Address:   address.NewRandom(),
		Authority: caller,
		Decimals:  decimals,
		CreatedAt: s.env.Clock.Now().UTC(),
	}
	if err := s.env.Repos.Tokens(s.env.DB).CreateMint(ctx, m); err != nil {
		s.env.Metrics.Failure("create_mint", err)
		return nil, fmt.Errorf("error creating mint: %w", err)
	}
	s.env.Logger.Info(ctx, "mint created", "mint", m.Address, "authority", caller)
	return m, nil
}

// OpenTokenAccount opens a zero-balance account of mint owned by caller.
func (s *TokenService) OpenTokenAccount(ctx context.Context, caller, mint address.Address) (*models.TokenAccount, error) {
	acc := &models.TokenAccount{
		Address:   address.NewRandom(),
		Mint:      mint,
		Owner:     caller,
		CreatedAt: s.env.Clock.Now().UTC(),
	}
	err := s.env.inTx(ctx, "open_token_account", func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.env.Repos.Tokens(tx)
		if _, err := repo.GetMint(ctx, mint); err != nil {
			return fmt.Errorf("mint %s: %w", mint, err)
		}
		return repo.CreateAccount(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// MintTo credits amount new units. Only the mint authority may call it.
func (s *TokenService) MintTo(ctx context.Context, caller, account address.Address, amount int64) (*models.TokenAccount, error) {
	var out *models.TokenAccount
	err := s.env.inTx(ctx, "mint_to", func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.env.Repos.Tokens(tx)
		if err := repo.MintTo(ctx, account, amount, address.ExternalSigner(caller)); err != nil {
			return err
		}
		var err error
		out, err = repo.GetAccount(ctx, account)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.env.Logger.Info(ctx, "minted", "account", account, "amount", amount)
	return out, nil
}

func (s *TokenService) GetTokenAccount(ctx context.Context, account address.Address) (*models.TokenAccount, error) {
	return s.env.Repos.Tokens(s.env.DB).GetAccount(ctx, account)
}
