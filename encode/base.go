package encode

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// base17Alphabet is the digit alphabet used by the enumerate step when it
// operates on a base-17 string: 0-9 then a-g, most significant digit first.
const base17Alphabet = "0123456789abcdefg"

// HexToBase256 decodes a hex string into raw bytes (the "base-256"
// representation used internally by the chain-iteration primitives).
func HexToBase256(hexStr string) ([]byte, error) {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("encode: invalid hex string: %w", err)
	}
	return b, nil
}

// Base256ToHex encodes raw bytes as lowercase hex.
func Base256ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// HexToBase17 converts a hex string to its base-17 representation using the
// 0-9,a-g alphabet, most significant digit first, with no leading-zero
// trimming shorter than the minimum digit count needed to represent the
// value.
func HexToBase17(hexStr string) (string, error) {
	n := new(big.Int)
	if _, ok := n.SetString(hexStr, 16); !ok {
		return "", fmt.Errorf("encode: invalid hex string %q", hexStr)
	}
	return bigIntToBase(n, 17, base17Alphabet), nil
}

// Base17ToHex converts a base-17 string (alphabet 0-9,a-g) back to lowercase
// hex.
func Base17ToHex(b17 string) (string, error) {
	n, err := baseToBigInt(b17, 17, base17Alphabet)
	if err != nil {
		return "", err
	}
	s := n.Text(16)
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return s, nil
}

func bigIntToBase(n *big.Int, base int64, alphabet string) string {
	if n.Sign() == 0 {
		return string(alphabet[0])
	}
	rem := new(big.Int).Set(n)
	b := big.NewInt(base)
	mod := new(big.Int)
	var digits []byte
	for rem.Sign() > 0 {
		rem.DivMod(rem, b, mod)
		digits = append(digits, alphabet[mod.Int64()])
	}
	// digits were accumulated least-significant first; reverse for
	// big-endian output.
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

func baseToBigInt(s string, base int64, alphabet string) (*big.Int, error) {
	n := new(big.Int)
	b := big.NewInt(base)
	for _, r := range strings.ToLower(s) {
		idx := strings.IndexRune(alphabet, r)
		if idx < 0 {
			return nil, fmt.Errorf("encode: invalid base-%d digit %q", base, r)
		}
		n.Mul(n, b)
		n.Add(n, big.NewInt(int64(idx)))
	}
	return n, nil
}
