package memory

import (
	"context"
	"fmt"
	"math"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

// credit adds amount to *balance unless the sum would not fit in an int64.
func credit(balance *int64, amount int64) error {
	if *balance > math.MaxInt64-amount {
		return common.ErrAmountOverflow
	}
	*balance += amount
	return nil
}

type tokenRepo struct {
	h *handle
}

func (r *tokenRepo) CreateMint(_ context.Context, m *models.Mint) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.mints[m.Address]; ok {
			return fmt.Errorf("db error: mint %s: %w", m.Address, ErrDuplicate)
		}
		st.mints[m.Address] = *m
		return nil
	})
}

func (r *tokenRepo) GetMint(_ context.Context, mint address.Address) (*models.Mint, error) {
	var out models.Mint
	err := r.h.do(func(st *state) error {
		m, ok := st.mints[mint]
		if !ok {
			return common.ErrorNotFound
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *tokenRepo) CreateAccount(_ context.Context, a *models.TokenAccount) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.accounts[a.Address]; ok {
			return fmt.Errorf("db error: token account %s: %w", a.Address, ErrDuplicate)
		}
		if _, ok := st.mints[a.Mint]; !ok {
			return fmt.Errorf("mint %s: %w", a.Mint, common.ErrorNotFound)
		}
		acc := *a
		acc.Amount = 0
		st.accounts[a.Address] = acc
		return nil
	})
}

func (r *tokenRepo) GetAccount(_ context.Context, account address.Address) (*models.TokenAccount, error) {
	var out models.TokenAccount
	err := r.h.do(func(st *state) error {
		a, ok := st.accounts[account]
		if !ok {
			return fmt.Errorf("token account %s: %w", account, common.ErrorNotFound)
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *tokenRepo) MintTo(_ context.Context, account address.Address, amount int64, authority address.Signer) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	signer, err := authority.Address()
	if err != nil {
		return err
	}
	return r.h.do(func(st *state) error {
		acc, ok := st.accounts[account]
		if !ok {
			return fmt.Errorf("token account %s: %w", account, common.ErrorNotFound)
		}
		if st.mints[acc.Mint].Authority != signer {
			return fmt.Errorf("mint authority: %w", common.ErrorUnauthorized)
		}
		if err := credit(&acc.Amount, amount); err != nil {
			return err
		}
		st.accounts[account] = acc
		return nil
	})
}

func (r *tokenRepo) Transfer(_ context.Context, from, to address.Address, amount int64, signer address.Signer) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	owner, err := signer.Address()
	if err != nil {
		return err
	}
	return r.h.do(func(st *state) error {
		src, ok := st.accounts[from]
		if !ok {
			return fmt.Errorf("token account %s: %w", from, common.ErrorNotFound)
		}
		if src.Owner != owner {
			return fmt.Errorf("owner of %s: %w", from, common.ErrorUnauthorized)
		}
		if _, ok := st.accounts[to]; !ok {
			return fmt.Errorf("token account %s: %w", to, common.ErrorNotFound)
		}
		if st.accounts[to].Mint != src.Mint {
			return common.ErrMintMismatch
		}
		if src.Amount < amount {
			return common.ErrInsufficientFunds
		}
		dst := st.accounts[to]
		if err := credit(&dst.Amount, amount); err != nil {
			return err
		}
		src.Amount -= amount
		st.accounts[from] = src
		st.accounts[to] = dst
		return nil
	})
}

type campaignRepo struct {
	h *handle
}

func (r *campaignRepo) Create(_ context.Context, c *models.Campaign) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.campaigns[c.Address]; ok {
			return fmt.Errorf("db error: campaign %s: %w", c.Address, ErrDuplicate)
		}
		st.campaigns[c.Address] = *c
		return nil
	})
}

func (r *campaignRepo) Get(_ context.Context, campaign address.Address) (*models.Campaign, error) {
	var out models.Campaign
	err := r.h.do(func(st *state) error {
		c, ok := st.campaigns[campaign]
		if !ok {
			return fmt.Errorf("campaign %s: %w", campaign, common.ErrorNotFound)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type backerRepo struct {
	h *handle
}

func (r *backerRepo) Add(_ context.Context, b *models.Backer) (*models.Backer, error) {
	var out models.Backer
	err := r.h.do(func(st *state) error {
		cur, ok := st.backers[b.Address]
		if !ok {
			cur = *b
			cur.Amount = 0
			cur.CreatedAt = b.UpdatedAt
		}
		if err := credit(&cur.Amount, b.Amount); err != nil {
			return err
		}
		cur.UpdatedAt = b.UpdatedAt
		st.backers[b.Address] = cur
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *backerRepo) Get(_ context.Context, record address.Address) (*models.Backer, error) {
	var out models.Backer
	err := r.h.do(func(st *state) error {
		b, ok := st.backers[record]
		if !ok {
			return fmt.Errorf("backer %s: %w", record, common.ErrorNotFound)
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
