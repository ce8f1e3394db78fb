// Package memory is an in-process implementation of every repository and of
// dbx.TxRunner. Transactions are serialised by a single lock and rolled back
// by restoring a snapshot, which makes it suitable for development servers
// and for tests that exercise real ledger semantics.
package memory

import (
	"context"
	"database/sql"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/backers"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/campaigns"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/challenges"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/proposals"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/updates"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/votes"
)

var (
	ErrNotSQL    = errors.New("memory store does not execute SQL")
	ErrDuplicate = errors.New("duplicate key")
)

type state struct {
	mints         map[address.Address]models.Mint
	accounts      map[address.Address]models.TokenAccount
	campaigns     map[address.Address]models.Campaign
	backers       map[address.Address]models.Backer
	proposals     map[address.Address]models.Proposal
	votes         map[address.Address]models.Vote
	updates       []models.Update
	refreshTokens map[string]models.RefreshToken
	challenges    map[string]models.Challenge
}

func newState() *state {
	return &state{
		mints:         map[address.Address]models.Mint{},
		accounts:      map[address.Address]models.TokenAccount{},
		campaigns:     map[address.Address]models.Campaign{},
		backers:       map[address.Address]models.Backer{},
		proposals:     map[address.Address]models.Proposal{},
		votes:         map[address.Address]models.Vote{},
		refreshTokens: map[string]models.RefreshToken{},
		challenges:    map[string]models.Challenge{},
	}
}

func (s *state) clone() *state {
	return &state{
		mints:         maps.Clone(s.mints),
		accounts:      maps.Clone(s.accounts),
		campaigns:     maps.Clone(s.campaigns),
		backers:       maps.Clone(s.backers),
		proposals:     maps.Clone(s.proposals),
		votes:         maps.Clone(s.votes),
		updates:       slices.Clone(s.updates),
		refreshTokens: maps.Clone(s.refreshTokens),
		challenges:    maps.Clone(s.challenges),
	}
}

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

// handle is the dbx.DBTX the store hands to repositories. It never runs SQL;
// it only tells the repositories whether the store lock is already held.
type handle struct {
	store *Store
	inTx  bool
}

func (h *handle) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, ErrNotSQL
}

func (h *handle) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, ErrNotSQL
}

func (h *handle) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

func (h *handle) do(fn func(st *state) error) error {
	if h.inTx {
		return fn(h.store.st)
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.st)
}

// Handle returns a non-transactional handle for reads and single writes.
func (s *Store) Handle() dbx.DBTX {
	return &handle{store: s}
}

// RunInTx holds the store lock for the whole of fn. Any error, panic or
// context cancellation restores the state seen at the start.
func (s *Store) RunInTx(ctx context.Context, _ *sql.TxOptions, fn func(ctx context.Context, tx dbx.DBTX) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()

	if err = fn(ctx, &handle{store: s, inTx: true}); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Store) handleFor(db dbx.DBTX) *handle {
	if h, ok := db.(*handle); ok && h.store == s {
		return h
	}
	return &handle{store: s}
}

func (s *Store) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (s *Store) Tokens(db dbx.DBTX) tokens.Repository {
	return &tokenRepo{h: s.handleFor(db)}
}

func (s *Store) Campaigns(db dbx.DBTX) campaigns.Repository {
	return &campaignRepo{h: s.handleFor(db)}
}

func (s *Store) Backers(db dbx.DBTX) backers.Repository {
	return &backerRepo{h: s.handleFor(db)}
}

func (s *Store) Proposals(db dbx.DBTX) proposals.Repository {
	return &proposalRepo{h: s.handleFor(db)}
}

func (s *Store) Votes(db dbx.DBTX) votes.Repository {
	return &voteRepo{h: s.handleFor(db)}
}

func (s *Store) Updates(db dbx.DBTX) updates.Repository {
	return &updateRepo{h: s.handleFor(db)}
}

func (s *Store) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return &refreshTokenRepo{h: s.handleFor(db)}
}

func (s *Store) Challenges(db dbx.DBTX) challenges.Repository {
	return &challengeRepo{h: s.handleFor(db)}
}
