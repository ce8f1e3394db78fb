// Package refreshtokens declares the repository for refresh tokens issued by
// the session service.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, identity address.Address, token string, expires time.Time) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// Purge deletes tokens that expired at or before before and returns how
	// many were removed.
	Purge(ctx context.Context, before time.Time) (int64, error)
}
