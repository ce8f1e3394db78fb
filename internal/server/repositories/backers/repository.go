// Package backers stores per-campaign contribution totals.
package backers

import (
	"context"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type Repository interface {
	// Add creates the record on first contribution or adds b.Amount to the
	// existing total. It returns the stored record.
	Add(ctx context.Context, b *models.Backer) (*models.Backer, error)
	Get(ctx context.Context, record address.Address) (*models.Backer, error)
}
