// Package services contains the server-side business logic: the token ledger,
// campaigns and deposits, proposals and the withdrawal gate, the update log,
// and sessions. Every mutating operation runs as one dbx.TxRunner transaction.
package services

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/logging"
	"github.com/dmitrijs2005/buidlvault/internal/server/metrics"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/repomanager"
)

// Env carries the collaborators shared by all services.
type Env struct {
	Runner  dbx.TxRunner
	DB      dbx.DBTX
	Repos   repomanager.RepositoryManager
	Deriver *address.Deriver
	Clock   clock.Clock
	Logger  logging.Logger
	Metrics *metrics.Metrics
}

func (e Env) withDefaults(module string) Env {
	if e.Clock == nil {
		e.Clock = clock.New()
	}
	if e.Logger == nil {
		e.Logger = logging.Nop{}
	}
	e.Logger = e.Logger.With("module", module)
	return e
}

// inTx runs fn in a transaction and counts failures under op.
func (e Env) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	err := e.Runner.RunInTx(ctx, nil, fn)
	if err != nil {
		e.Metrics.Failure(op, err)
	}
	return err
}

// verifyClaimed checks an optional caller-supplied sub-account. A zero claim
// means the caller did not supply one.
func (e Env) verifyClaimed(claimed address.Address, ns address.Namespace, parents ...address.Address) error {
	if claimed.IsZero() {
		return nil
	}
	return e.Deriver.Verify(claimed, ns, parents...)
}
