package grpc

import (
	"github.com/dmitrijs2005/buidlvault/internal/api"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

func mintToAPI(m *models.Mint) api.Mint {
	return api.Mint{Address: m.Address, Authority: m.Authority, Decimals: m.Decimals, CreatedAt: m.CreatedAt}
}

func accountToAPI(a *models.TokenAccount) api.TokenAccount {
	return api.TokenAccount{Address: a.Address, Mint: a.Mint, Owner: a.Owner, Amount: a.Amount, CreatedAt: a.CreatedAt}
}

func campaignToAPI(c *models.Campaign) api.Campaign {
	return api.Campaign{
		Address:   c.Address,
		Owner:     c.Owner,
		Mint:      c.Mint,
		Vault:     c.Vault,
		Label:     c.DBID,
		CreatedAt: c.CreatedAt,
	}
}

func backerToAPI(b *models.Backer) api.Backer {
	return api.Backer{
		Address:   b.Address,
		Campaign:  b.Campaign,
		Backer:    b.Backer,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func proposalToAPI(p *models.Proposal, st models.ProposalStatus) api.Proposal {
	return api.Proposal{
		Address:    p.Address,
		Campaign:   p.Campaign,
		Vault:      p.Vault,
		Recipient:  p.Recipient,
		Amount:     p.Amount,
		Label:      p.DBID,
		EndsAt:     p.EndsAt,
		Upvotes:    p.Upvotes,
		Downvotes:  p.Downvotes,
		Status:     string(st),
		ReleasedAt: p.ReleasedAt,
		CreatedAt:  p.CreatedAt,
	}
}

func voteToAPI(v *models.Vote) api.Vote {
	return api.Vote{
		Address:   v.Address,
		Proposal:  v.Proposal,
		Voter:     v.Voter,
		Upvote:    v.Upvote,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func updateToAPI(u *models.Update, downloadURL string) api.Update {
	return api.Update{
		ID:          u.ID,
		Campaign:    u.Campaign,
		Author:      u.Author,
		Label:       u.DBID,
		Sequence:    u.Sequence,
		StorageKey:  u.StorageKey,
		DownloadURL: downloadURL,
		CreatedAt:   u.CreatedAt,
	}
}
