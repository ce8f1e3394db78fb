package models

import (
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
)

type RefreshToken struct {
	Identity address.Address
	Token    string
	Expires  time.Time
}

// Challenge is a single-use nonce an identity must sign to log in.
type Challenge struct {
	Nonce    string
	Identity address.Address
	Expires  time.Time
}
