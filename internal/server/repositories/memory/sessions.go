package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

type refreshTokenRepo struct {
	h *handle
}

func (r *refreshTokenRepo) Create(_ context.Context, identity address.Address, token string, expires time.Time) error {
	return r.h.do(func(st *state) error {
		st.refreshTokens[token] = models.RefreshToken{Identity: identity, Token: token, Expires: expires}
		return nil
	})
}

func (r *refreshTokenRepo) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	var out models.RefreshToken
	err := r.h.do(func(st *state) error {
		rt, ok := st.refreshTokens[token]
		if !ok {
			return common.ErrorNotFound
		}
		out = rt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *refreshTokenRepo) Delete(_ context.Context, token string) error {
	return r.h.do(func(st *state) error {
		delete(st.refreshTokens, token)
		return nil
	})
}

type challengeRepo struct {
	h *handle
}

func (r *challengeRepo) Create(_ context.Context, c *models.Challenge) error {
	return r.h.do(func(st *state) error {
		st.challenges[c.Nonce] = *c
		return nil
	})
}

func (r *challengeRepo) Take(_ context.Context, nonce string) (*models.Challenge, error) {
	var out models.Challenge
	err := r.h.do(func(st *state) error {
		c, ok := st.challenges[nonce]
		if !ok {
			return common.ErrorNotFound
		}
		delete(st.challenges, nonce)
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *refreshTokenRepo) Purge(_ context.Context, before time.Time) (int64, error) {
	var n int64
	err := r.h.do(func(st *state) error {
		for token, rt := range st.refreshTokens {
			if !rt.Expires.After(before) {
				delete(st.refreshTokens, token)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *challengeRepo) Purge(_ context.Context, before time.Time) (int64, error) {
	var n int64
	err := r.h.do(func(st *state) error {
		for nonce, c := range st.challenges {
			if !c.Expires.After(before) {
				delete(st.challenges, nonce)
				n++
			}
		}
		return nil
	})
	return n, err
}
