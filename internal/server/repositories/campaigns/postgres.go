package campaigns

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Campaign) error {
	query := `
		INSERT INTO campaigns (address, owner, mint, vault, db_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query, c.Address, c.Owner, c.Mint, c.Vault, c.DBID, c.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, campaign address.Address) (*models.Campaign, error) {
	query := `
		SELECT owner, mint, vault, db_id, created_at
		FROM campaigns
		WHERE address = $1
	`
	c := &models.Campaign{Address: campaign}
	if err := r.db.QueryRowContext(ctx, query, campaign).Scan(&c.Owner, &c.Mint, &c.Vault, &c.DBID, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("campaign %s: %w", campaign, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
