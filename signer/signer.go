// Package signer implements the enumerate/normalize/chain-iteration pipeline
// that makes the engine's WOTS+-style one-time signatures bit-identical
// across every sibling SDK. It knows nothing about atoms, molecules, or
// wallets — only about hex digest strings, integer sequences in [-8, +8],
// and byte chains.
package signer

import (
	"fmt"

	"github.com/shadowy/molecule/hasher"
)

const (
	// Chains is the number of independent WOTS+ hash chains a key splits
	// into.
	Chains = 16
	// DigitsPerChain is how many normalized integers (hex characters of the
	// molecular hash) each chain is responsible for.
	DigitsPerChain = 4
	// HashDigits is the total number of hex characters enumerated from a
	// 256-bit molecular hash: Chains * DigitsPerChain.
	HashDigits = Chains * DigitsPerChain
	// ChainSeedBytes is the width of one chain's private seed and of every
	// intermediate value produced while walking that chain: the default
	// 8192-bit intermediate key divided across Chains.
	ChainSeedBytes = 64
	// maxDigit bounds the enumerated/normalized integer range [-maxDigit, +maxDigit].
	maxDigit = 8
	// fullChainIterations is how many hash applications separate a private
	// seed from its public chain head, regardless of the signed digit.
	fullChainIterations = 2 * maxDigit
)

// Enumerate maps each hex character of hashHex to a signed integer in
// [-8, +7] (hex digits only ever reach 15, i.e. +7 after the -8 bias; see
// EnumerateBase17 for the +8 case that only arises from a base-17 string).
func Enumerate(hashHex string) ([]int, error) {
	out := make([]int, len(hashHex))
	for i, r := range hashHex {
		v, err := hexDigitValue(r)
		if err != nil {
			return nil, fmt.Errorf("signer: enumerate: %w", err)
		}
		out[i] = v - maxDigit
	}
	return out, nil
}

// EnumerateBase17 maps each base-17 digit (alphabet 0-9, a-g) of s to a
// signed integer in [-8, +8]; the digit 'g' (value 16) maps to +8.
func EnumerateBase17(s string) ([]int, error) {
	out := make([]int, len(s))
	for i, r := range s {
		v, err := base17DigitValue(r)
		if err != nil {
			return nil, fmt.Errorf("signer: enumerate: %w", err)
		}
		out[i] = v - maxDigit
	}
	return out, nil
}

func hexDigitValue(r rune) (int, error) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), nil
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, nil
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", r)
	}
}

func base17DigitValue(r rune) (int, error) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), nil
	case r >= 'a' && r <= 'g':
		return int(r-'a') + 10, nil
	case r >= 'A' && r <= 'G':
		return int(r-'A') + 10, nil
	default:
		return 0, fmt.Errorf("invalid base-17 digit %q", r)
	}
}

// Normalize adjusts an enumerated sequence in place (returning the same
// slice) so that it sums to exactly zero while keeping every element within
// [-8, +8]. It scans deterministically from the front on every pass, which
// is itself part of the cross-SDK contract: two SDKs handed the same
// enumerated sequence must produce the same normalized sequence.
func Normalize(digits []int) []int {
	sum := 0
	for _, d := range digits {
		sum += d
	}
	for sum > 0 {
		for i := range digits {
			if digits[i] > -maxDigit {
				digits[i]--
				sum--
				break
			}
		}
	}
	for sum < 0 {
		for i := range digits {
			if digits[i] < maxDigit {
				digits[i]++
				sum++
				break
			}
		}
	}
	return digits
}

// IterateChain applies the hasher `times` times to seed, each time keeping an
// output the same width as seed. times == 0 returns a copy of seed unchanged.
func IterateChain(seed []byte, times int) []byte {
	cur := append([]byte(nil), seed...)
	width := len(seed) * 8
	for i := 0; i < times; i++ {
		cur = hasher.Sum(cur, width)
	}
	return cur
}

// DeriveChainHead walks a private chain seed all the way to its public head:
// fullChainIterations applications of the hasher, independent of any
// message.
func DeriveChainHead(seed []byte) []byte {
	return IterateChain(seed, fullChainIterations)
}

// SignDigit walks seed (8-n) times, producing the signature segment for one
// normalized digit n in [-8, +8].
func SignDigit(seed []byte, n int) []byte {
	return IterateChain(seed, maxDigit-n)
}

// RecoverDigitHead walks a signature segment the remaining (8+n) times to
// reach the chain head a verifier compares against.
func RecoverDigitHead(segment []byte, n int) []byte {
	return IterateChain(segment, maxDigit+n)
}
