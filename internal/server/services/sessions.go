package services

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/server/auth"
	"github.com/dmitrijs2005/buidlvault/internal/server/models"
)

const loginPrefix = "buidlvault login:"

// LoginMessage is what an identity signs with its ed25519 key to log in.
func LoginMessage(nonce string) []byte {
	return []byte(loginPrefix + nonce)
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type SessionConfig struct {
	SecretKey            string
	AccessTokenValidity  time.Duration
	RefreshTokenValidity time.Duration
	ChallengeValidity    time.Duration
}

// SessionService authenticates identities by a signed challenge and issues
// JWT access tokens plus server-stored refresh tokens.
type SessionService struct {
	env Env
	cfg SessionConfig
}

func NewSessionService(env Env, cfg SessionConfig) *SessionService {
	return &SessionService{env: env.withDefaults("sessions"), cfg: cfg}
}

// RequestChallenge issues a single-use nonce for identity.
func (s *SessionService) RequestChallenge(ctx context.Context, identity address.Address) (*models.Challenge, error) {
	if !identity.IsOnCurve() {
		return nil, fmt.Errorf("identity %s is not a public key: %w", identity, common.ErrInvalidAddress)
	}
	nonce, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	c := &models.Challenge{
		Nonce:    nonce,
		Identity: identity,
		Expires:  s.env.Clock.Now().UTC().Add(s.cfg.ChallengeValidity),
	}
	if err := s.env.Repos.Challenges(s.env.DB).Create(ctx, c); err != nil {
		return nil, fmt.Errorf("error storing challenge: %w", err)
	}
	return c, nil
}

// Login consumes the challenge whatever the outcome, then checks the
// signature over LoginMessage(nonce).
func (s *SessionService) Login(ctx context.Context, identity address.Address, nonce string, signature []byte) (*TokenPair, error) {
	c, err := s.env.Repos.Challenges(s.env.DB).Take(ctx, nonce)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if c.Identity != identity {
		return nil, common.ErrorUnauthorized
	}
	if !s.env.Clock.Now().Before(c.Expires) {
		return nil, common.ErrChallengeExpired
	}
	if !ed25519.Verify(ed25519.PublicKey(identity.Bytes()), LoginMessage(nonce), signature) {
		return nil, common.ErrInvalidSignature
	}

	pair, err := s.generateTokenPair(ctx, identity, s.env.DB)
	if err != nil {
		return nil, err
	}
	s.env.Logger.Info(ctx, "logged in", "identity", identity)
	return pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *SessionService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.env.Repos.RefreshTokens(s.env.DB).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if !s.env.Clock.Now().Before(token.Expires) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = s.env.Runner.RunInTx(ctx, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.env.Repos.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.Identity, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// PurgeExpired removes expired refresh tokens and unused challenges in one
// transaction.
func (s *SessionService) PurgeExpired(ctx context.Context) (tokens, challenges int64, err error) {
	now := s.env.Clock.Now()
	err = s.env.Runner.RunInTx(ctx, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if tokens, err = s.env.Repos.RefreshTokens(tx).Purge(ctx, now); err != nil {
			return fmt.Errorf("error purging refresh tokens: %w", err)
		}
		if challenges, err = s.env.Repos.Challenges(tx).Purge(ctx, now); err != nil {
			return fmt.Errorf("error purging challenges: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	if tokens > 0 || challenges > 0 {
		s.env.Logger.Info(ctx, "purged expired sessions", "refresh_tokens", tokens, "challenges", challenges)
	}
	return tokens, challenges, nil
}

// Authenticate resolves an access token to the identity it was issued to.
func (s *SessionService) Authenticate(accessToken string) (address.Address, error) {
	return auth.GetIdentityFromToken(accessToken, []byte(s.cfg.SecretKey), s.env.Clock.Now())
}

func (s *SessionService) generateTokenPair(ctx context.Context, identity address.Address, tx dbx.DBTX) (*TokenPair, error) {
	now := s.env.Clock.Now()
	access, err := auth.GenerateToken(identity, []byte(s.cfg.SecretKey), now, s.cfg.AccessTokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.env.Repos.RefreshTokens(tx).Create(ctx, identity, refresh, now.Add(s.cfg.RefreshTokenValidity)); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
