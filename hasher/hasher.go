// Package hasher provides the engine's sole digest primitive: a SHAKE-256
// extendable-output function usable at any bit width. Every width the engine
// needs — 256-bit molecular hashes, 512-bit chain-iteration digests, the
// 8192-bit intermediate wallet key — is the same XOF read to a different
// length, so there is exactly one hash family to reason about across every
// sibling SDK.
package hasher

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Sum returns the SHAKE-256 digest of data truncated to bits, which must be a
// positive multiple of 8.
func Sum(data []byte, bits int) []byte {
	return SumMulti(bits, data)
}

// SumMulti hashes the concatenation of parts without copying them into a
// single buffer first.
func SumMulti(bits int, parts ...[]byte) []byte {
	if bits <= 0 || bits%8 != 0 {
		panic(fmt.Sprintf("hasher: bits must be a positive multiple of 8, got %d", bits))
	}
	shake := sha3.NewShake256()
	for _, p := range parts {
		shake.Write(p)
	}
	out := make([]byte, bits/8)
	shake.Read(out)
	return out
}

// Hex returns the lowercase hex encoding of Sum(data, bits).
func Hex(data []byte, bits int) string {
	return hex.EncodeToString(Sum(data, bits))
}

// HexMulti returns the lowercase hex encoding of SumMulti(bits, parts...).
func HexMulti(bits int, parts ...[]byte) string {
	return hex.EncodeToString(SumMulti(bits, parts...))
}
