package address

import (
	"fmt"

	"github.com/dmitrijs2005/buidlvault/internal/common"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Namespace is the tag that prefixes the seeds of a derived address.
type Namespace string

const (
	NamespaceVault     Namespace = "vault"
	NamespaceAuthority Namespace = "authority"
	NamespaceBacker    Namespace = "backer"
	NamespaceVote      Namespace = "vote"
)

const DefaultCacheSize = 4096

// Derivation is a derived address and the bump that produced it.
type Derivation struct {
	Address Address
	Bump    uint8
}

// Deriver computes derived addresses for one program id. Results are pure
// functions of the inputs, so they are memoised.
type Deriver struct {
	programID Address
	cache     *lru.Cache[string, Derivation]
}

func NewDeriver(programID Address, cacheSize int) (*Deriver, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c, err := lru.New[string, Derivation](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Deriver{programID: programID, cache: c}, nil
}

func (d *Deriver) ProgramID() Address {
	return d.programID
}

func seedsFor(ns Namespace, parents []Address) [][]byte {
	seeds := make([][]byte, 0, len(parents)+1)
	seeds = append(seeds, []byte(ns))
	for _, p := range parents {
		seeds = append(seeds, p[:])
	}
	return seeds
}

func cacheKey(ns Namespace, parents []Address) string {
	b := make([]byte, 0, len(ns)+1+len(parents)*Size)
	b = append(b, ns...)
	b = append(b, 0)
	for _, p := range parents {
		b = append(b, p[:]...)
	}
	return string(b)
}

// Derive returns the canonical address for ns and parents.
func (d *Deriver) Derive(ns Namespace, parents ...Address) (Derivation, error) {
	key := cacheKey(ns, parents)
	if v, ok := d.cache.Get(key); ok {
		return v, nil
	}
	a, bump, err := FindProgramAddress(seedsFor(ns, parents), d.programID)
	if err != nil {
		return Derivation{}, fmt.Errorf("derive %s: %w", ns, err)
	}
	v := Derivation{Address: a, Bump: bump}
	d.cache.Add(key, v)
	return v, nil
}

func (d *Deriver) address(ns Namespace, parents ...Address) (Address, error) {
	v, err := d.Derive(ns, parents...)
	if err != nil {
		return Zero, err
	}
	return v.Address, nil
}

// Vault is the custodial token account of a campaign for one mint.
func (d *Deriver) Vault(campaign, mint Address) (Address, error) {
	return d.address(NamespaceVault, campaign, mint)
}

// Authority owns the vault. No credential exists for it.
func (d *Deriver) Authority(campaign, mint Address) (Address, error) {
	return d.address(NamespaceAuthority, campaign, mint)
}

func (d *Deriver) Backer(campaign, backer Address) (Address, error) {
	return d.address(NamespaceBacker, campaign, backer)
}

func (d *Deriver) Vote(proposal, voter Address) (Address, error) {
	return d.address(NamespaceVote, proposal, voter)
}

// Verify fails with common.ErrDerivationMismatch unless claimed is the
// canonical address for ns and parents.
func (d *Deriver) Verify(claimed Address, ns Namespace, parents ...Address) error {
	want, err := d.address(ns, parents...)
	if err != nil {
		return err
	}
	if claimed != want {
		return fmt.Errorf("%s %s: %w", ns, claimed, common.ErrDerivationMismatch)
	}
	return nil
}

// AuthoritySigner returns the signer that proves control over the vault of
// campaign by re-running the derivation.
func (d *Deriver) AuthoritySigner(campaign, mint Address) (Signer, error) {
	v, err := d.Derive(NamespaceAuthority, campaign, mint)
	if err != nil {
		return nil, err
	}
	return &programSigner{
		programID: d.programID,
		seeds:     seedsFor(NamespaceAuthority, []Address{campaign, mint}),
		bump:      v.Bump,
	}, nil
}
