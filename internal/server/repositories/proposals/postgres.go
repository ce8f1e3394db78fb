package proposals

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

const selectColumns = `address, campaign, vault, recipient, amount, db_id, ends_at, upvotes, downvotes, released_at, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (*models.Proposal, error) {
	p := &models.Proposal{}
	var released sql.NullTime
	err := row.Scan(&p.Address, &p.Campaign, &p.Vault, &p.Recipient, &p.Amount, &p.DBID,
		&p.EndsAt, &p.Upvotes, &p.Downvotes, &released, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if released.Valid {
		t := released.Time
		p.ReleasedAt = &t
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Proposal) error {
	query := `
		INSERT INTO proposals (address, campaign, vault, recipient, amount, db_id, ends_at, upvotes, downvotes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, $8)
	`
	_, err := r.db.ExecContext(ctx, query, p.Address, p.Campaign, p.Vault, p.Recipient, p.Amount, p.DBID, p.EndsAt, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) get(ctx context.Context, query string, proposal address.Address) (*models.Proposal, error) {
	p, err := scanProposal(r.db.QueryRowContext(ctx, query, proposal))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("proposal %s: %w", proposal, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, proposal address.Address) (*models.Proposal, error) {
	return r.get(ctx, `SELECT `+selectColumns+` FROM proposals WHERE address = $1`, proposal)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, proposal address.Address) (*models.Proposal, error) {
	return r.get(ctx, `SELECT `+selectColumns+` FROM proposals WHERE address = $1 FOR UPDATE`, proposal)
}

func (r *PostgresRepository) ListByCampaign(ctx context.Context, campaign address.Address) ([]*models.Proposal, error) {
	query := `SELECT ` + selectColumns + ` FROM proposals WHERE campaign = $1 ORDER BY created_at, address`

	rows, err := r.db.QueryContext(ctx, query, campaign)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) ApplyVote(ctx context.Context, proposal address.Address, upDelta, downDelta int64) (int64, int64, error) {
	query := `
		UPDATE proposals
		SET upvotes = upvotes + $2, downvotes = downvotes + $3
		WHERE address = $1
		RETURNING upvotes, downvotes
	`
	var up, down int64
	if err := r.db.QueryRowContext(ctx, query, proposal, upDelta, downDelta).Scan(&up, &down); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, fmt.Errorf("proposal %s: %w", proposal, common.ErrorNotFound)
		}
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	return up, down, nil
}

func (r *PostgresRepository) MarkReleased(ctx context.Context, proposal address.Address, at time.Time) error {
	query := `
		UPDATE proposals
		SET released_at = $2
		WHERE address = $1 AND released_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, proposal, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrProposalReleased
	}
	return nil
}
