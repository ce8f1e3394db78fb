package backers

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

// Add upserts in a single statement, so two first deposits racing on the
// same record both land.
func (r *PostgresRepository) Add(ctx context.Context, b *models.Backer) (*models.Backer, error) {
	query := `
		INSERT INTO backers (address, campaign, backer, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (address) DO UPDATE
		SET amount = backers.amount + EXCLUDED.amount,
			updated_at = EXCLUDED.updated_at
		RETURNING amount, created_at, updated_at
	`
	out := *b
	err := r.db.QueryRowContext(ctx, query, b.Address, b.Campaign, b.Backer, b.Amount, b.UpdatedAt).
		Scan(&out.Amount, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, record address.Address) (*models.Backer, error) {
	query := `
		SELECT campaign, backer, amount, created_at, updated_at
		FROM backers
		WHERE address = $1
	`
	b := &models.Backer{Address: record}
	err := r.db.QueryRowContext(ctx, query, record).Scan(&b.Campaign, &b.Backer, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("backer %s: %w", record, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}
