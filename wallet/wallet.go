// Package wallet derives deterministic wallet identities and one-time WOTS+
// chain seeds from a user secret: identical (secret, token, position)
// triples must always yield an identical address and identical signing key
// material, bit-for-bit, on every sibling SDK.
package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"github.com/shadowy/molecule/hasher"
	"github.com/shadowy/molecule/signer"
)

// DefaultKeyWidthBits is the canonical intermediate-key width: 8192 bits
// (1024 bytes) split into 16 chains of 64 bytes each.
const DefaultKeyWidthBits = 8192

const positionHexLen = 64

// Wallet is the public, secret-free view of a derived identity: everything a
// caller needs to build atoms and verify signatures, never the private chain
// seeds.
type Wallet struct {
	Token    string
	Position string
	Address  string
	Bundle   string
	Balance  *big.Rat
	BatchID  string
}

// KeyMaterial holds the private signing material for one wallet position. It
// must be zeroized with Zero() as soon as signing completes; the engine
// never caches it across molecules.
type KeyMaterial struct {
	Bundle     string
	Address    string
	ChainSeeds [signer.Chains][]byte
}

// Zero overwrites every chain seed with zero bytes.
func (k *KeyMaterial) Zero() {
	for i := range k.ChainSeeds {
		for j := range k.ChainSeeds[i] {
			k.ChainSeeds[i][j] = 0
		}
	}
}

// Bundle derives the 256-bit identity root from a secret alone.
func Bundle(secret []byte) string {
	return hasher.Hex(secret, 256)
}

// NewPosition generates a random 64-hex-character position.
func NewPosition() (string, error) {
	buf := make([]byte, positionHexLen/2)
	if _, err := rand.Read(buf); err != nil {
		return "", newErr("generating random position: %v", err)
	}
	return hex.EncodeToString(buf), nil
}

// DeriveKeyMaterial computes the 16 private WOTS+ chain seeds and the public
// address for (secret, token, position).
func DeriveKeyMaterial(secret []byte, token, position string, keyWidthBits int) (*KeyMaterial, error) {
	if len(token) == 0 {
		return nil, newErr("token must not be empty")
	}
	if !isHex(position, positionHexLen) {
		return nil, newErr("position must be %d hex characters, got %q", positionHexLen, position)
	}
	if keyWidthBits <= 0 || keyWidthBits%(signer.Chains*8) != 0 {
		return nil, newErr("keyWidthBits must be a positive multiple of %d, got %d", signer.Chains*8, keyWidthBits)
	}

	intermediate := hasher.SumMulti(keyWidthBits, secret, []byte(token), []byte(position))
	chunkSize := keyWidthBits / 8 / signer.Chains

	var km KeyMaterial
	km.Bundle = Bundle(secret)

	heads := make([]byte, 0, signer.Chains*chunkSize)
	for i := 0; i < signer.Chains; i++ {
		seed := append([]byte(nil), intermediate[i*chunkSize:(i+1)*chunkSize]...)
		km.ChainSeeds[i] = seed
		heads = append(heads, signer.DeriveChainHead(seed)...)
	}
	km.Address = hasher.Hex(heads, 256)
	return &km, nil
}

// Derive returns the public Wallet view for (secret, token, position),
// generating a random position when none is supplied. keyWidthBits of 0
// selects DefaultKeyWidthBits.
func Derive(secret []byte, token, position string, keyWidthBits int) (*Wallet, error) {
	if keyWidthBits == 0 {
		keyWidthBits = DefaultKeyWidthBits
	}
	if position == "" {
		p, err := NewPosition()
		if err != nil {
			return nil, err
		}
		position = p
	}
	km, err := DeriveKeyMaterial(secret, token, position, keyWidthBits)
	if err != nil {
		return nil, err
	}
	return &Wallet{
		Token:    token,
		Position: position,
		Address:  km.Address,
		Bundle:   km.Bundle,
		Balance:  new(big.Rat),
	}, nil
}

func isHex(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}
