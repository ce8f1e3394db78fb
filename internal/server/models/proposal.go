package models

import (
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
)

type ProposalStatus string

const (
	ProposalOpen      ProposalStatus = "open"
	ProposalDecidable ProposalStatus = "decidable"
	ProposalReleased  ProposalStatus = "released"
)

// Proposal asks the backers to release Amount from the vault to Recipient.
type Proposal struct {
	Address    address.Address
	Campaign   address.Address
	Vault      address.Address
	Recipient  address.Address
	Amount     int64
	DBID       string
	EndsAt     time.Time
	Upvotes    int64
	Downvotes  int64
	ReleasedAt *time.Time
	CreatedAt  time.Time
}

// Status is the lifecycle state at now.
func (p *Proposal) Status(now time.Time) ProposalStatus {
	switch {
	case p.ReleasedAt != nil:
		return ProposalReleased
	case now.Before(p.EndsAt):
		return ProposalOpen
	default:
		return ProposalDecidable
	}
}

// Approved reports a strict majority of upvotes. Ties are rejections.
func (p *Proposal) Approved() bool {
	return p.Upvotes > p.Downvotes
}

// Vote is the current direction of one voter on one proposal.
type Vote struct {
	Address   address.Address
	Proposal  address.Address
	Voter     address.Address
	Upvote    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Update is an append-only progress posting of a campaign.
type Update struct {
	ID         string
	Campaign   address.Address
	Author     address.Address
	DBID       string
	Sequence   int64
	StorageKey string
	CreatedAt  time.Time
}
