package address

import (
	"fmt"

	"github.com/dmitrijs2005/buidlvault/internal/common"
)

// Signer authorises a debit from a token account it owns.
type Signer interface {
	// Address returns the identity the signer proves, or an error if the
	// proof does not hold.
	Address() (Address, error)
}

// ExternalSigner is an identity authenticated by the transport. Derived
// addresses cannot be external signers.
type ExternalSigner Address

func (s ExternalSigner) Address() (Address, error) {
	a := Address(s)
	if !a.IsOnCurve() {
		return Zero, fmt.Errorf("external signer %s: %w", a, common.ErrDerivationMismatch)
	}
	return a, nil
}

type programSigner struct {
	programID Address
	seeds     [][]byte
	bump      uint8
}

func (s *programSigner) Address() (Address, error) {
	seeds := make([][]byte, len(s.seeds)+1)
	copy(seeds, s.seeds)
	seeds[len(s.seeds)] = []byte{s.bump}
	a, err := CreateProgramAddress(seeds, s.programID)
	if err != nil {
		return Zero, fmt.Errorf("program signer: %w", common.ErrDerivationMismatch)
	}
	return a, nil
}
