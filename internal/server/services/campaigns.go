package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

// CampaignService creates campaigns with their custodial vaults and accepts
// deposits into them.
type CampaignService struct {
	env Env
}

func NewCampaignService(env Env) *CampaignService {
	return &CampaignService{env: env.withDefaults("campaigns")}
}

// CreateCampaign allocates a campaign and its zero-balance vault. The vault
// is owned by the derived authority, which has no credential.
func (s *CampaignService) CreateCampaign(ctx context.Context, owner, mint address.Address, label string) (*models.Campaign, error) {
	if err := common.ValidateLabel(label); err != nil {
		return nil, err
	}

	campaign := address.NewRandom()
	vault, err := s.env.Deriver.Vault(campaign, mint)
	if err != nil {
		return nil, err
	}
	authority, err := s.env.Deriver.Authority(campaign, mint)
	if err != nil {
		return nil, err
	}

	now := s.env.Clock.Now().UTC()
	c := &models.Campaign{
		Address:   campaign,
		Owner:     owner,
		Mint:      mint,
		Vault:     vault,
		DBID:      label,
		CreatedAt: now,
	}

	err = s.env.inTx(ctx, "create_campaign", func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.env.Repos.Tokens(tx)
		if _, err := tokens.GetMint(ctx, mint); err != nil {
			return fmt.Errorf("mint %s: %w", mint, err)
		}
		if err := tokens.CreateAccount(ctx, &models.TokenAccount{
			Address:   vault,
			Mint:      mint,
			Owner:     authority,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("error creating vault: %w", err)
		}
		return s.env.Repos.Campaigns(tx).Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.env.Logger.Info(ctx, "campaign created", "campaign", campaign, "owner", owner, "vault", vault)
	return c, nil
}

type DepositRequest struct {
	Campaign address.Address
	Backer   address.Address
	// From is the backer's token account; the backer must own it.
	From   address.Address
	Amount int64

	// Optional claims, checked against their derivations when not zero.
	ClaimedVault  address.Address
	ClaimedBacker address.Address
}

type DepositResult struct {
	Backer       *models.Backer
	VaultBalance int64
}

// Deposit moves Amount from the backer into the vault and adds it to the
// backer record. Either both happen or neither does.
func (s *CampaignService) Deposit(ctx context.Context, req DepositRequest) (*DepositResult, error) {
	if req.Amount <= 0 {
		s.env.Metrics.Failure("deposit", common.ErrInvalidAmount)
		return nil, common.ErrInvalidAmount
	}

	res := &DepositResult{}
	err := s.env.inTx(ctx, "deposit", func(ctx context.Context, tx dbx.DBTX) error {
		c, err := s.env.Repos.Campaigns(tx).Get(ctx, req.Campaign)
		if err != nil {
			return err
		}
		if err := s.env.verifyClaimed(req.ClaimedVault, address.NamespaceVault, c.Address, c.Mint); err != nil {
			return err
		}
		record, err := s.env.Deriver.Backer(c.Address, req.Backer)
		if err != nil {
			return err
		}
		if !req.ClaimedBacker.IsZero() && req.ClaimedBacker != record {
			return fmt.Errorf("backer %s: %w", req.ClaimedBacker, common.ErrDerivationMismatch)
		}

		tokens := s.env.Repos.Tokens(tx)
		if err := tokens.Transfer(ctx, req.From, c.Vault, req.Amount, address.ExternalSigner(req.Backer)); err != nil {
			return err
		}

		res.Backer, err = s.env.Repos.Backers(tx).Add(ctx, &models.Backer{
			Address:   record,
			Campaign:  c.Address,
			Backer:    req.Backer,
			Amount:    req.Amount,
			UpdatedAt: s.env.Clock.Now().UTC(),
		})
		if err != nil {
			return err
		}

		vault, err := tokens.GetAccount(ctx, c.Vault)
		if err != nil {
			return err
		}
		res.VaultBalance = vault.Amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.env.Metrics.Deposit(req.Amount)
	s.env.Logger.Info(ctx, "deposit accepted", "campaign", req.Campaign, "backer", req.Backer, "amount", req.Amount)
	return res, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, campaign address.Address) (*models.Campaign, error) {
	return s.env.Repos.Campaigns(s.env.DB).Get(ctx, campaign)
}

// GetVault returns the campaign vault account with its current balance.
func (s *CampaignService) GetVault(ctx context.Context, campaign address.Address) (*models.TokenAccount, error) {
	c, err := s.GetCampaign(ctx, campaign)
	if err != nil {
		return nil, err
	}
	return s.env.Repos.Tokens(s.env.DB).GetAccount(ctx, c.Vault)
}

// GetBacker looks the record up by its derivation. No index is consulted.
func (s *CampaignService) GetBacker(ctx context.Context, campaign, backer address.Address) (*models.Backer, error) {
	record, err := s.env.Deriver.Backer(campaign, backer)
	if err != nil {
		return nil, err
	}
	return s.env.Repos.Backers(s.env.DB).Get(ctx, record)
}
