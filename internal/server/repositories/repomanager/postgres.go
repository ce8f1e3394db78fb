package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/server/migrations"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/backers"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/campaigns"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/challenges"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/proposals"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/updates"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/votes"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// OpenPostgres opens a pgx-backed *sql.DB and checks connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (m *PostgresRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository {
	return tokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Campaigns(db dbx.DBTX) campaigns.Repository {
	return campaigns.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Backers(db dbx.DBTX) backers.Repository {
	return backers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Proposals(db dbx.DBTX) proposals.Repository {
	return proposals.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Votes(db dbx.DBTX) votes.Repository {
	return votes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Updates(db dbx.DBTX) updates.Repository {
	return updates.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Challenges(db dbx.DBTX) challenges.Repository {
	return challenges.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
