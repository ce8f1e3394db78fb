package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

// ProposalService runs the proposal lifecycle: creation bounded by the vault
// balance, voting with direction flips, and the time and majority gated
// withdrawal.
type ProposalService struct {
	env Env
}

func NewProposalService(env Env) *ProposalService {
	return &ProposalService{env: env.withDefaults("proposals")}
}

type CreateProposalRequest struct {
	Caller       address.Address
	Campaign     address.Address
	ClaimedVault address.Address
	Amount       int64
	Label        string
	// Recipient is the token account that receives Amount on approval.
	Recipient address.Address
	Duration  time.Duration
}

func (s *ProposalService) CreateProposal(ctx context.Context, req CreateProposalRequest) (*models.Proposal, error) {
	var p *models.Proposal
	err := s.env.inTx(ctx, "create_proposal", func(ctx context.Context, tx dbx.DBTX) error {
		if req.Amount <= 0 {
			return common.ErrInvalidAmount
		}
		if err := common.ValidateLabel(req.Label); err != nil {
			return err
		}
		if req.Duration < 0 {
			return common.ErrInvalidDuration
		}

		c, err := s.env.Repos.Campaigns(tx).Get(ctx, req.Campaign)
		if err != nil {
			return err
		}
		if c.Owner != req.Caller {
			return fmt.Errorf("campaign owner: %w", common.ErrorUnauthorized)
		}
		if err := s.env.verifyClaimed(req.ClaimedVault, address.NamespaceVault, c.Address, c.Mint); err != nil {
			return err
		}

		tokens := s.env.Repos.Tokens(tx)
		vault, err := tokens.GetAccount(ctx, c.Vault)
		if err != nil {
			return err
		}
		if req.Amount > vault.Amount {
			return common.ErrInsufficientFunds
		}
		recipient, err := tokens.GetAccount(ctx, req.Recipient)
		if err != nil {
			return fmt.Errorf("recipient: %w", err)
		}
		if recipient.Mint != c.Mint {
			return common.ErrMintMismatch
		}

		now := s.env.Clock.Now().UTC()
		p = &models.Proposal{
			Address:   address.NewRandom(),
			Campaign:  c.Address,
			Vault:     c.Vault,
			Recipient: req.Recipient,
			Amount:    req.Amount,
			DBID:      req.Label,
			EndsAt:    now.Add(req.Duration),
			CreatedAt: now,
		}
		return s.env.Repos.Proposals(tx).Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.env.Metrics.ProposalCreated()
	s.env.Logger.Info(ctx, "proposal created", "campaign", p.Campaign, "proposal", p.Address, "amount", p.Amount, "ends_at", p.EndsAt)
	return p, nil
}

type VoteResult struct {
	Proposal *models.Proposal
	Vote     *models.Vote
	Flipped  bool
}

// Vote records the voter's direction. A repeat in the same direction fails
// with common.ErrAlreadyVoted; the opposite direction moves the vote from
// one tally to the other.
func (s *ProposalService) Vote(ctx context.Context, proposal, voter address.Address, upvote bool) (*VoteResult, error) {
	res := &VoteResult{}
	err := s.env.inTx(ctx, "vote", func(ctx context.Context, tx dbx.DBTX) error {
		proposals := s.env.Repos.Proposals(tx)
		p, err := proposals.GetForUpdate(ctx, proposal)
		if err != nil {
			return err
		}
		now := s.env.Clock.Now().UTC()
		if !now.Before(p.EndsAt) {
			return common.ErrProposalClosed
		}

		record, err := s.env.Deriver.Vote(p.Address, voter)
		if err != nil {
			return err
		}

		votes := s.env.Repos.Votes(tx)
		v, err := votes.Get(ctx, record)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			v = &models.Vote{
				Address:   record,
				Proposal:  p.Address,
				Voter:     voter,
				Upvote:    upvote,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := votes.Create(ctx, v); err != nil {
				return err
			}
			up, down := tally(upvote)
			p.Upvotes, p.Downvotes, err = proposals.ApplyVote(ctx, p.Address, up, down)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		case v.Upvote == upvote:
			return common.ErrAlreadyVoted
		default:
			if err := votes.SetDirection(ctx, record, upvote, now); err != nil {
				return err
			}
			up, down := tally(upvote)
			oldUp, oldDown := tally(v.Upvote)
			p.Upvotes, p.Downvotes, err = proposals.ApplyVote(ctx, p.Address, up-oldUp, down-oldDown)
			if err != nil {
				return err
			}
			v.Upvote, v.UpdatedAt = upvote, now
			res.Flipped = true
		}

		res.Proposal, res.Vote = p, v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.env.Metrics.Vote(upvote, res.Flipped)
	s.env.Logger.Info(ctx, "vote accepted", "proposal", proposal, "voter", voter, "upvote", upvote,
		"upvotes", res.Proposal.Upvotes, "downvotes", res.Proposal.Downvotes)
	return res, nil
}

func tally(upvote bool) (int64, int64) {
	if upvote {
		return 1, 0
	}
	return 0, 1
}

type CheckProposalRequest struct {
	Campaign     address.Address
	Proposal     address.Address
	ClaimedVault address.Address
	Recipient    address.Address
}

type CheckProposalResult struct {
	Approved     bool
	Transferred  int64
	Upvotes      int64
	Downvotes    int64
	VaultBalance int64
}

// CheckProposal decides a proposal whose voting period is over. On a strict
// upvote majority the amount moves from the vault to the recipient, signed by
// the re-derived vault authority, and the proposal is marked released in the
// same transaction.
func (s *ProposalService) CheckProposal(ctx context.Context, req CheckProposalRequest) (*CheckProposalResult, error) {
	res := &CheckProposalResult{}
	err := s.env.inTx(ctx, "check_proposal", func(ctx context.Context, tx dbx.DBTX) error {
		proposals := s.env.Repos.Proposals(tx)
		p, err := proposals.GetForUpdate(ctx, req.Proposal)
		if err != nil {
			return err
		}
		if p.Campaign != req.Campaign {
			return fmt.Errorf("proposal %s does not belong to campaign %s: %w", p.Address, req.Campaign, common.ErrDerivationMismatch)
		}
		c, err := s.env.Repos.Campaigns(tx).Get(ctx, p.Campaign)
		if err != nil {
			return err
		}
		if err := s.env.verifyClaimed(req.ClaimedVault, address.NamespaceVault, c.Address, c.Mint); err != nil {
			return err
		}

		now := s.env.Clock.Now().UTC()
		if now.Before(p.EndsAt) {
			return common.ErrProposalNotOver
		}
		if req.Recipient != p.Recipient {
			return common.ErrRecipientMismatch
		}
		if p.ReleasedAt != nil {
			return common.ErrProposalReleased
		}

		res.Approved = p.Approved()
		res.Upvotes, res.Downvotes = p.Upvotes, p.Downvotes

		tokens := s.env.Repos.Tokens(tx)
		if res.Approved {
			signer, err := s.env.Deriver.AuthoritySigner(c.Address, c.Mint)
			if err != nil {
				return err
			}
			if err := tokens.Transfer(ctx, p.Vault, p.Recipient, p.Amount, signer); err != nil {
				return err
			}
			if err := proposals.MarkReleased(ctx, p.Address, now); err != nil {
				return err
			}
			res.Transferred = p.Amount
		}

		vault, err := tokens.GetAccount(ctx, p.Vault)
		if err != nil {
			return err
		}
		res.VaultBalance = vault.Amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.env.Metrics.ProposalChecked(res.Approved, res.Transferred)
	s.env.Logger.Info(ctx, "proposal checked", "proposal", req.Proposal, "approved", res.Approved, "transferred", res.Transferred)
	return res, nil
}

// GetProposal returns the proposal and its status at the current time.
func (s *ProposalService) GetProposal(ctx context.Context, proposal address.Address) (*models.Proposal, models.ProposalStatus, error) {
	p, err := s.env.Repos.Proposals(s.env.DB).Get(ctx, proposal)
	if err != nil {
		return nil, "", err
	}
	return p, p.Status(s.env.Clock.Now()), nil
}

func (s *ProposalService) ListProposals(ctx context.Context, campaign address.Address) ([]*models.Proposal, error) {
	return s.env.Repos.Proposals(s.env.DB).ListByCampaign(ctx, campaign)
}

// GetVote looks the vote record up by its derivation.
func (s *ProposalService) GetVote(ctx context.Context, proposal, voter address.Address) (*models.Vote, error) {
	record, err := s.env.Deriver.Vote(proposal, voter)
	if err != nil {
		return nil, err
	}
	return s.env.Repos.Votes(s.env.DB).Get(ctx, record)
}
