// Package address implements the identity space of the vault: 32-byte
// addresses, their base58 text form, and program-derived addresses that are
// computed from a namespace tag and parent identities and can never have a
// private key.
package address

import (
	"crypto/rand"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Size is the length of an address in bytes.
const Size = 32

var ErrInvalidLength = errors.New("address must be 32 bytes")

// Address identifies a wallet, a token account, a mint or a record.
type Address [Size]byte

// Zero is the empty address.
var Zero Address

// FromBytes copies b into an Address.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, ErrInvalidLength
	}
	copy(a[:], b)
	return a, nil
}

// Parse decodes a base58 address.
func Parse(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Zero, fmt.Errorf("decode %q: %w", s, err)
	}
	return FromBytes(b)
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// NewRandom returns a fresh random address. It is used for records that are
// not derived, such as campaigns and mints.
func NewRandom() Address {
	var a Address
	if _, err := rand.Read(a[:]); err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Zero
}

// IsOnCurve reports whether a decodes to an ed25519 point, i.e. whether a
// private key could exist for it.
func (a Address) IsOnCurve() bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = Zero
		return nil
	}
	p, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = p
	return nil
}
