package tokens

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

// PostgresRepository keeps balances in token_accounts. Debits are
// conditional updates, so concurrent transfers cannot overdraw an account.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateMint(ctx context.Context, m *models.Mint) error {
	query := `
		INSERT INTO mints (address, authority, decimals, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, m.Address, m.Authority, int16(m.Decimals), m.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetMint(ctx context.Context, mint address.Address) (*models.Mint, error) {
	query := `
		SELECT authority, decimals, created_at
		FROM mints
		WHERE address = $1
	`
	m := &models.Mint{Address: mint}
	var decimals int16
	if err := r.db.QueryRowContext(ctx, query, mint).Scan(&m.Authority, &decimals, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	m.Decimals = uint8(decimals)
	return m, nil
}

func (r *PostgresRepository) CreateAccount(ctx context.Context, a *models.TokenAccount) error {
	query := `
		INSERT INTO token_accounts (address, mint, owner, amount, created_at)
		VALUES ($1, $2, $3, 0, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, a.Address, a.Mint, a.Owner, a.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetAccount(ctx context.Context, account address.Address) (*models.TokenAccount, error) {
	query := `
		SELECT mint, owner, amount, created_at
		FROM token_accounts
		WHERE address = $1
	`
	return r.scanAccount(ctx, query, account)
}

func (r *PostgresRepository) lockAccount(ctx context.Context, account address.Address) (*models.TokenAccount, error) {
	query := `
		SELECT mint, owner, amount, created_at
		FROM token_accounts
		WHERE address = $1
		FOR UPDATE
	`
	return r.scanAccount(ctx, query, account)
}

func (r *PostgresRepository) scanAccount(ctx context.Context, query string, account address.Address) (*models.TokenAccount, error) {
	a := &models.TokenAccount{Address: account}
	if err := r.db.QueryRowContext(ctx, query, account).Scan(&a.Mint, &a.Owner, &a.Amount, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("token account %s: %w", account, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) credit(ctx context.Context, account address.Address, amount int64) error {
	query := `
		UPDATE token_accounts
		SET amount = amount + $2
		WHERE address = $1
	`
	if _, err := r.db.ExecContext(ctx, query, account, amount); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MintTo(ctx context.Context, account address.Address, amount int64, authority address.Signer) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	signer, err := authority.Address()
	if err != nil {
		return err
	}

	to, err := r.lockAccount(ctx, account)
	if err != nil {
		return err
	}
	mint, err := r.GetMint(ctx, to.Mint)
	if err != nil {
		return err
	}
	if mint.Authority != signer {
		return fmt.Errorf("mint authority: %w", common.ErrorUnauthorized)
	}
	return r.credit(ctx, account, amount)
}

func (r *PostgresRepository) Transfer(ctx context.Context, from, to address.Address, amount int64, signer address.Signer) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	owner, err := signer.Address()
	if err != nil {
		return err
	}

	src, err := r.lockAccount(ctx, from)
	if err != nil {
		return err
	}
	if src.Owner != owner {
		return fmt.Errorf("owner of %s: %w", from, common.ErrorUnauthorized)
	}
	dst, err := r.GetAccount(ctx, to)
	if err != nil {
		return err
	}
	if dst.Mint != src.Mint {
		return common.ErrMintMismatch
	}

	query := `
		UPDATE token_accounts
		SET amount = amount - $2
		WHERE address = $1 AND amount >= $2
	`
	res, err := r.db.ExecContext(ctx, query, from, amount)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrInsufficientFunds
	}

	return r.credit(ctx, to, amount)
}
