package updates

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, u *models.Update) error {
	query := `
		INSERT INTO updates (id, campaign, author, db_id, sequence, storage_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	key := sql.NullString{String: u.StorageKey, Valid: u.StorageKey != ""}
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Campaign, u.Author, u.DBID, u.Sequence, key, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByCampaign(ctx context.Context, campaign address.Address) ([]*models.Update, error) {
	query := `
		SELECT id, author, db_id, sequence, storage_key, created_at
		FROM updates
		WHERE campaign = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, campaign)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Update
	for rows.Next() {
		u := &models.Update{Campaign: campaign}
		var key sql.NullString
		if err := rows.Scan(&u.ID, &u.Author, &u.DBID, &u.Sequence, &key, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		u.StorageKey = key.String
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
