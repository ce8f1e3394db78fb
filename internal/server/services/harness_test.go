package services

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/logging"
	"github.com/dmitrijs2005/buidlvault/internal/server/metrics"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/memory"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	store   *memory.Store
	clock   *clock.Mock
	env     Env
	metrics *metrics.Metrics

	tokens    *TokenService
	campaigns *CampaignService
	proposals *ProposalService

	mint          address.Address
	mintAuthority address.Address
}

func newIdentity(t *testing.T) (address.Address, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	a, err := address.FromBytes(pub)
	require.NoError(t, err)
	return a, priv
}

func identity(t *testing.T) address.Address {
	t.Helper()
	a, _ := newIdentity(t)
	return a
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	deriver, err := address.NewDeriver(address.NewRandom(), 0)
	require.NoError(t, err)

	store := memory.New()
	clk := clock.NewMock()
	clk.Set(start)

	h := &harness{store: store, clock: clk, metrics: metrics.New()}
	h.env = Env{
		Runner:  store,
		DB:      store.Handle(),
		Repos:   store,
		Deriver: deriver,
		Clock:   clk,
		Logger:  logging.Nop{},
		Metrics: h.metrics,
	}
	h.tokens = NewTokenService(h.env)
	h.campaigns = NewCampaignService(h.env)
	h.proposals = NewProposalService(h.env)

	h.mintAuthority = identity(t)
	m, err := h.tokens.CreateMint(context.Background(), h.mintAuthority, 6)
	require.NoError(t, err)
	h.mint = m.Address
	return h
}

// account opens a token account for owner holding amount units.
func (h *harness) account(t *testing.T, owner address.Address, amount int64) address.Address {
	t.Helper()
	ctx := context.Background()
	acc, err := h.tokens.OpenTokenAccount(ctx, owner, h.mint)
	require.NoError(t, err)
	if amount > 0 {
		_, err = h.tokens.MintTo(ctx, h.mintAuthority, acc.Address, amount)
		require.NoError(t, err)
	}
	return acc.Address
}

func (h *harness) balance(t *testing.T, account address.Address) int64 {
	t.Helper()
	acc, err := h.tokens.GetTokenAccount(context.Background(), account)
	require.NoError(t, err)
	return acc.Amount
}

func (h *harness) campaign(t *testing.T, owner address.Address) *models.Campaign {
	t.Helper()
	c, err := h.campaigns.CreateCampaign(context.Background(), owner, h.mint, "buidl")
	require.NoError(t, err)
	return c
}

// deposit funds a fresh backer with amount and deposits all of it.
func (h *harness) deposit(t *testing.T, c *models.Campaign, amount int64) address.Address {
	t.Helper()
	backer := identity(t)
	from := h.account(t, backer, amount)
	_, err := h.campaigns.Deposit(context.Background(), DepositRequest{
		Campaign: c.Address,
		Backer:   backer,
		From:     from,
		Amount:   amount,
	})
	require.NoError(t, err)
	return backer
}

func (h *harness) proposal(t *testing.T, c *models.Campaign, amount int64, recipient address.Address, d time.Duration) *models.Proposal {
	t.Helper()
	p, err := h.proposals.CreateProposal(context.Background(), CreateProposalRequest{
		Caller:    c.Owner,
		Campaign:  c.Address,
		Amount:    amount,
		Label:     "milestone",
		Recipient: recipient,
		Duration:  d,
	})
	require.NoError(t, err)
	return p
}
