package votes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Get(ctx context.Context, record address.Address) (*models.Vote, error) {
	query := `
		SELECT proposal, voter, upvote, created_at, updated_at
		FROM votes
		WHERE address = $1
	`
	v := &models.Vote{Address: record}
	err := r.db.QueryRowContext(ctx, query, record).Scan(&v.Proposal, &v.Voter, &v.Upvote, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.Vote) error {
	query := `
		INSERT INTO votes (address, proposal, voter, upvote, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (address) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, v.Address, v.Proposal, v.Voter, v.Upvote, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrVersionConflict
	}
	return nil
}

func (r *PostgresRepository) SetDirection(ctx context.Context, record address.Address, upvote bool, at time.Time) error {
	query := `
		UPDATE votes
		SET upvote = $2, updated_at = $3
		WHERE address = $1
	`
	res, err := r.db.ExecContext(ctx, query, record, upvote, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
