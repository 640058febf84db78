// Package mutation provides thin factories over molecule's init… methods:
// each function sets a molecule's primary isotope, populates it, and returns
// a draft ready to sign. None of them perform I/O.
package mutation

import (
	"math/big"

	"github.com/shadowy/molecule/atom"
	"github.com/shadowy/molecule/molecule"
	"github.com/shadowy/molecule/wallet"
)

// Transfer builds a draft molecule moving amount of source's token to
// recipient, with the residual balance returned to remainder.
func Transfer(p molecule.NewParams, recipient *wallet.Wallet, amount *big.Rat) (*molecule.Molecule, error) {
	m := molecule.New(p)
	if err := m.InitValue(recipient, amount); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateToken builds a draft molecule issuing a new token into recipient's
// wallet.
func CreateToken(p molecule.NewParams, recipient *wallet.Wallet, amount *big.Rat, meta []atom.MetaPair) (*molecule.Molecule, error) {
	m := molecule.New(p)
	if err := m.InitTokenCreation(recipient, amount, meta); err != nil {
		return nil, err
	}
	return m, nil
}

// Meta builds a draft molecule writing a meta record against the source
// wallet.
func Meta(p molecule.NewParams, meta []atom.MetaPair, metaType, metaID string) (*molecule.Molecule, error) {
	m := molecule.New(p)
	if err := m.InitMeta(meta, metaType, metaID); err != nil {
		return nil, err
	}
	return m, nil
}

// Authorization builds a draft molecule granting a permission list against
// the source wallet.
func Authorization(p molecule.NewParams, meta []atom.MetaPair) (*molecule.Molecule, error) {
	m := molecule.New(p)
	if err := m.InitAuthorization(meta); err != nil {
		return nil, err
	}
	return m, nil
}

// Identifier builds a draft molecule establishing a ContinuID.
func Identifier(p molecule.NewParams, meta []atom.MetaPair) (*molecule.Molecule, error) {
	m := molecule.New(p)
	if err := m.InitIdentifierCreation(meta); err != nil {
		return nil, err
	}
	return m, nil
}
