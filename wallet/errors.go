package wallet

import "fmt"

// WalletError reports a malformed secret, token, or position supplied to
// wallet derivation.
type WalletError struct {
	Msg string
}

func (e *WalletError) Error() string { return "wallet: " + e.Msg }

func newErr(format string, args ...interface{}) *WalletError {
	return &WalletError{Msg: fmt.Sprintf(format, args...)}
}
