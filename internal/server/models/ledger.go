// Package models holds the records persisted by the vault server.
package models

import (
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
)

// Mint is an asset type. Only its authority can create new units.
type Mint struct {
	Address   address.Address
	Authority address.Address
	Decimals  uint8
	CreatedAt time.Time
}

// TokenAccount holds a balance of one mint. Only its owner can debit it.
type TokenAccount struct {
	Address   address.Address
	Mint      address.Address
	Owner     address.Address
	Amount    int64
	CreatedAt time.Time
}

// Campaign is a fundraising target with one custodial vault.
type Campaign struct {
	Address   address.Address
	Owner     address.Address
	Mint      address.Address
	Vault     address.Address
	DBID      string
	CreatedAt time.Time
}

// Backer accumulates the contributions of one identity to one campaign.
type Backer struct {
	Address   address.Address
	Campaign  address.Address
	Backer    address.Address
	Amount    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
