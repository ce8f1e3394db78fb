// Package repomanager vends repositories bound to a dbx.DBTX, so services
// can use the same repositories inside and outside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/backers"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/campaigns"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/challenges"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/proposals"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/updates"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/votes"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Tokens(db dbx.DBTX) tokens.Repository
	Campaigns(db dbx.DBTX) campaigns.Repository
	Backers(db dbx.DBTX) backers.Repository
	Proposals(db dbx.DBTX) proposals.Repository
	Votes(db dbx.DBTX) votes.Repository
	Updates(db dbx.DBTX) updates.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Challenges(db dbx.DBTX) challenges.Repository
}
