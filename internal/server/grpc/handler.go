package grpc

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/api"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
	"github.com/dmitrijs2005/buidlvault/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type SessionService interface {
	RequestChallenge(ctx context.Context, identity address.Address) (*models.Challenge, error)
	Login(ctx context.Context, identity address.Address, nonce string, signature []byte) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(accessToken string) (address.Address, error)
}

type TokenService interface {
	CreateMint(ctx context.Context, caller address.Address, decimals uint8) (*models.Mint, error)
	OpenTokenAccount(ctx context.Context, caller, mint address.Address) (*models.TokenAccount, error)
	MintTo(ctx context.Context, caller, account address.Address, amount int64) (*models.TokenAccount, error)
	GetTokenAccount(ctx context.Context, account address.Address) (*models.TokenAccount, error)
}

type CampaignService interface {
	CreateCampaign(ctx context.Context, owner, mint address.Address, label string) (*models.Campaign, error)
	Deposit(ctx context.Context, req services.DepositRequest) (*services.DepositResult, error)
	GetCampaign(ctx context.Context, campaign address.Address) (*models.Campaign, error)
	GetVault(ctx context.Context, campaign address.Address) (*models.TokenAccount, error)
	GetBacker(ctx context.Context, campaign, backer address.Address) (*models.Backer, error)
}

type ProposalService interface {
	CreateProposal(ctx context.Context, req services.CreateProposalRequest) (*models.Proposal, error)
	Vote(ctx context.Context, proposal, voter address.Address, upvote bool) (*services.VoteResult, error)
	CheckProposal(ctx context.Context, req services.CheckProposalRequest) (*services.CheckProposalResult, error)
	GetProposal(ctx context.Context, proposal address.Address) (*models.Proposal, models.ProposalStatus, error)
	ListProposals(ctx context.Context, campaign address.Address) ([]*models.Proposal, error)
	GetVote(ctx context.Context, proposal, voter address.Address) (*models.Vote, error)
}

type UpdateService interface {
	PostUpdate(ctx context.Context, req services.PostUpdateRequest) (*services.PostedUpdate, error)
	ListUpdates(ctx context.Context, campaign address.Address) ([]*services.UpdateView, error)
}

const day = 24 * time.Hour

// maxDurationDays is the longest voting window that fits a time.Duration.
const maxDurationDays = int64(math.MaxInt64 / int64(day))

func caller(ctx context.Context) (address.Address, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return address.Address{}, status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "ok"}, nil
}

func (s *GRPCServer) RequestChallenge(ctx context.Context, req *api.ChallengeRequest) (*api.ChallengeResponse, error) {
	ch, err := s.services.Sessions.RequestChallenge(ctx, req.Identity)
	if err != nil {
		return nil, err
	}
	return &api.ChallengeResponse{Nonce: ch.Nonce, ExpiresAt: ch.Expires}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenResponse, error) {
	tokens, err := s.services.Sessions.Login(ctx, req.Identity, req.Nonce, req.Signature)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Logged in", "identity", req.Identity.String())
	return &api.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.TokenResponse, error) {
	tokens, err := s.services.Sessions.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &api.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) CreateMint(ctx context.Context, req *api.CreateMintRequest) (*api.MintResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	m, err := s.services.Tokens.CreateMint(ctx, id, req.Decimals)
	if err != nil {
		return nil, err
	}
	return &api.MintResponse{Mint: mintToAPI(m)}, nil
}

func (s *GRPCServer) OpenTokenAccount(ctx context.Context, req *api.OpenTokenAccountRequest) (*api.TokenAccountResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	acc, err := s.services.Tokens.OpenTokenAccount(ctx, id, req.Mint)
	if err != nil {
		return nil, err
	}
	return &api.TokenAccountResponse{Account: accountToAPI(acc)}, nil
}

func (s *GRPCServer) MintTo(ctx context.Context, req *api.MintToRequest) (*api.TokenAccountResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	acc, err := s.services.Tokens.MintTo(ctx, id, req.Account, req.Amount)
	if err != nil {
		return nil, err
	}
	return &api.TokenAccountResponse{Account: accountToAPI(acc)}, nil
}

func (s *GRPCServer) GetTokenAccount(ctx context.Context, req *api.GetTokenAccountRequest) (*api.TokenAccountResponse, error) {
	acc, err := s.services.Tokens.GetTokenAccount(ctx, req.Account)
	if err != nil {
		return nil, err
	}
	return &api.TokenAccountResponse{Account: accountToAPI(acc)}, nil
}

func (s *GRPCServer) CreateCampaign(ctx context.Context, req *api.CreateCampaignRequest) (*api.CampaignResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.services.Campaigns.CreateCampaign(ctx, id, req.Mint, req.Label)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Campaign created", "campaign", c.Address.String(), "owner", id.String())
	return &api.CampaignResponse{Campaign: campaignToAPI(c)}, nil
}

func (s *GRPCServer) GetCampaign(ctx context.Context, req *api.GetCampaignRequest) (*api.CampaignResponse, error) {
	c, err := s.services.Campaigns.GetCampaign(ctx, req.Campaign)
	if err != nil {
		return nil, err
	}
	return &api.CampaignResponse{Campaign: campaignToAPI(c)}, nil
}

func (s *GRPCServer) GetVault(ctx context.Context, req *api.GetVaultRequest) (*api.TokenAccountResponse, error) {
	acc, err := s.services.Campaigns.GetVault(ctx, req.Campaign)
	if err != nil {
		return nil, err
	}
	return &api.TokenAccountResponse{Account: accountToAPI(acc)}, nil
}

func (s *GRPCServer) Deposit(ctx context.Context, req *api.DepositRequest) (*api.DepositResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.services.Campaigns.Deposit(ctx, services.DepositRequest{
		Campaign:      req.Campaign,
		Backer:        id,
		From:          req.From,
		Amount:        req.Amount,
		ClaimedVault:  req.Vault,
		ClaimedBacker: req.BackerRecord,
	})
	if err != nil {
		return nil, err
	}
	return &api.DepositResponse{Backer: backerToAPI(res.Backer), VaultBalance: res.VaultBalance}, nil
}

func (s *GRPCServer) GetBacker(ctx context.Context, req *api.GetBackerRequest) (*api.BackerResponse, error) {
	b, err := s.services.Campaigns.GetBacker(ctx, req.Campaign, req.Backer)
	if err != nil {
		return nil, err
	}
	return &api.BackerResponse{Backer: backerToAPI(b)}, nil
}

// votingWindow converts whole days to a duration. Negative values pass
// through so the proposal service rejects them in its usual order.
func votingWindow(days int64) (time.Duration, error) {
	if days > maxDurationDays || days < -maxDurationDays {
		return 0, fmt.Errorf("%d days: %w", days, common.ErrInvalidDuration)
	}
	return time.Duration(days) * day, nil
}

func (s *GRPCServer) CreateProposal(ctx context.Context, req *api.CreateProposalRequest) (*api.ProposalResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	window, err := votingWindow(req.DurationDays)
	if err != nil {
		return nil, err
	}
	p, err := s.services.Proposals.CreateProposal(ctx, services.CreateProposalRequest{
		Caller:       id,
		Campaign:     req.Campaign,
		ClaimedVault: req.Vault,
		Amount:       req.Amount,
		Label:        req.Label,
		Recipient:    req.Recipient,
		Duration:     window,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Proposal created", "proposal", p.Address.String(), "campaign", p.Campaign.String(), "amount", p.Amount)
	return &api.ProposalResponse{Proposal: proposalToAPI(p, p.Status(p.CreatedAt))}, nil
}

func (s *GRPCServer) GetProposal(ctx context.Context, req *api.GetProposalRequest) (*api.ProposalResponse, error) {
	p, st, err := s.services.Proposals.GetProposal(ctx, req.Proposal)
	if err != nil {
		return nil, err
	}
	return &api.ProposalResponse{Proposal: proposalToAPI(p, st)}, nil
}

func (s *GRPCServer) ListProposals(ctx context.Context, req *api.ListProposalsRequest) (*api.ListProposalsResponse, error) {
	ps, err := s.services.Proposals.ListProposals(ctx, req.Campaign)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	out := make([]api.Proposal, 0, len(ps))
	for _, p := range ps {
		out = append(out, proposalToAPI(p, p.Status(now)))
	}
	return &api.ListProposalsResponse{Proposals: out}, nil
}

func (s *GRPCServer) Vote(ctx context.Context, req *api.VoteRequest) (*api.VoteResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.services.Proposals.Vote(ctx, req.Proposal, id, req.Upvote)
	if err != nil {
		return nil, err
	}
	return &api.VoteResponse{
		Proposal: proposalToAPI(res.Proposal, models.ProposalOpen),
		Vote:     voteToAPI(res.Vote),
		Flipped:  res.Flipped,
	}, nil
}

func (s *GRPCServer) GetVote(ctx context.Context, req *api.GetVoteRequest) (*api.VoteRecordResponse, error) {
	v, err := s.services.Proposals.GetVote(ctx, req.Proposal, req.Voter)
	if err != nil {
		return nil, err
	}
	return &api.VoteRecordResponse{Vote: voteToAPI(v)}, nil
}

func (s *GRPCServer) CheckProposal(ctx context.Context, req *api.CheckProposalRequest) (*api.CheckProposalResponse, error) {
	res, err := s.services.Proposals.CheckProposal(ctx, services.CheckProposalRequest{
		Campaign:     req.Campaign,
		Proposal:     req.Proposal,
		ClaimedVault: req.Vault,
		Recipient:    req.Recipient,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Proposal checked", "proposal", req.Proposal.String(), "approved", res.Approved, "transferred", res.Transferred)
	return &api.CheckProposalResponse{
		Approved:     res.Approved,
		Transferred:  res.Transferred,
		Upvotes:      res.Upvotes,
		Downvotes:    res.Downvotes,
		VaultBalance: res.VaultBalance,
	}, nil
}

func (s *GRPCServer) PostUpdate(ctx context.Context, req *api.PostUpdateRequest) (*api.PostUpdateResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	posted, err := s.services.Updates.PostUpdate(ctx, services.PostUpdateRequest{
		Author:         id,
		Campaign:       req.Campaign,
		Label:          req.Label,
		Sequence:       req.Sequence,
		WithAttachment: req.WithAttachment,
	})
	if err != nil {
		return nil, err
	}
	return &api.PostUpdateResponse{Update: updateToAPI(posted.Update, ""), UploadURL: posted.UploadURL}, nil
}

func (s *GRPCServer) ListUpdates(ctx context.Context, req *api.ListUpdatesRequest) (*api.ListUpdatesResponse, error) {
	views, err := s.services.Updates.ListUpdates(ctx, req.Campaign)
	if err != nil {
		return nil, err
	}
	out := make([]api.Update, 0, len(views))
	for _, v := range views {
		out = append(out, updateToAPI(v.Update, v.DownloadURL))
	}
	return &api.ListUpdatesResponse{Updates: out}, nil
}
