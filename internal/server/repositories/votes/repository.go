// Package votes stores one vote record per (proposal, voter).
package votes

import (
	"context"
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the voter has not voted yet.
	Get(ctx context.Context, record address.Address) (*models.Vote, error)
	// Create fails with common.ErrVersionConflict if the record appeared
	// concurrently.
	Create(ctx context.Context, v *models.Vote) error
	SetDirection(ctx context.Context, record address.Address, upvote bool, at time.Time) error
}
