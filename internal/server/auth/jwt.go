// Package auth issues and validates the HS256 access tokens handed out by the
// session service. The token subject is the base58 identity of the caller.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "buidlvault"

// Claims are the registered claims plus the caller identity.
type Claims struct {
	jwt.RegisteredClaims
	Identity address.Address `json:"idt"`
}

func GenerateToken(identity address.Address, secretKey []byte, now time.Time, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Identity: identity,
	})

	return token.SignedString(secretKey)
}

// GetIdentityFromToken validates tokenString at now. Expired tokens yield
// common.ErrTokenExpired, every other failure common.ErrInvalidToken.
func GetIdentityFromToken(tokenString string, secretKey []byte, now time.Time) (address.Address, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return address.Zero, common.ErrTokenExpired
		}
		return address.Zero, common.ErrInvalidToken
	}

	if !token.Valid || claims.Identity.IsZero() || claims.Subject != claims.Identity.String() {
		return address.Zero, common.ErrInvalidToken
	}

	return claims.Identity, nil
}
