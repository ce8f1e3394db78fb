// Package proposals stores withdrawal proposals and their vote tallies.
package proposals

import (
	"context"
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Proposal) error
	Get(ctx context.Context, proposal address.Address) (*models.Proposal, error)
	// GetForUpdate is Get that also locks the row until the transaction ends.
	GetForUpdate(ctx context.Context, proposal address.Address) (*models.Proposal, error)
	ListByCampaign(ctx context.Context, campaign address.Address) ([]*models.Proposal, error)

	// ApplyVote adds the deltas to the tallies and returns the new values.
	ApplyVote(ctx context.Context, proposal address.Address, upDelta, downDelta int64) (upvotes, downvotes int64, err error)
	// MarkReleased records the withdrawal. It fails with
	// common.ErrProposalReleased if the proposal was already released.
	MarkReleased(ctx context.Context, proposal address.Address, at time.Time) error
}
