package signer

import "fmt"

// Kind names the specific invariant a SignatureError violates, so callers can
// report (or a Molecule's check() can wrap) the first broken rule rather
// than a generic failure.
type Kind string

const (
	BadFragmentLength Kind = "BadFragmentLength"
	HashMismatch      Kind = "HashMismatch"
	AddressMismatch   Kind = "AddressMismatch"
)

// SignatureError reports a violation of the WOTS+ signing or verification
// contract.
type SignatureError struct {
	Kind Kind
	Msg  string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("signer: %s: %s", e.Kind, e.Msg)
}

func newErr(kind Kind, format string, args ...interface{}) *SignatureError {
	return &SignatureError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
