// Package campaigns stores campaign records. A campaign is written once and
// never modified.
package campaigns

import (
	"context"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Campaign) error
	// Get returns common.ErrorNotFound for unknown campaigns.
	Get(ctx context.Context, campaign address.Address) (*models.Campaign, error)
}
