// Package updates stores campaign progress postings. Records are append-only.
package updates

import (
	"context"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, u *models.Update) error
	ListByCampaign(ctx context.Context, campaign address.Address) ([]*models.Update, error)
}
