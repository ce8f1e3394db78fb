package challenges

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, c *models.Challenge) error {
	query := `
		INSERT INTO challenges (nonce, identity, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, c.Nonce, c.Identity, c.Expires); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Take(ctx context.Context, nonce string) (*models.Challenge, error) {
	query := `
		DELETE FROM challenges
		WHERE nonce = $1
		RETURNING identity, expires_at
	`
	c := &models.Challenge{Nonce: nonce}
	if err := r.db.QueryRowContext(ctx, query, nonce).Scan(&c.Identity, &c.Expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Purge(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM challenges
		WHERE expires_at <= $1
	`
	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}
