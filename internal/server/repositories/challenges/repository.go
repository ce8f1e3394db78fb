// Package challenges stores login nonces. A nonce can be taken only once.
package challenges

import (
	"context"
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Challenge) error
	// Take deletes and returns the challenge. It returns
	// common.ErrorNotFound if the nonce is unknown or already used.
	Take(ctx context.Context, nonce string) (*models.Challenge, error)
	// Purge deletes unused challenges that expired at or before before.
	Purge(ctx context.Context, before time.Time) (int64, error)
}
