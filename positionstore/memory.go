// Package positionstore implements a one-time-use discipline: a guard that
// refuses to let the same (secret, token, position) fingerprint reserve a
// signing slot twice. Neither implementation ever stores the secret itself,
// only Hasher(secret||token||position, 256) fingerprints.
package positionstore

import "sync"

// Memory is a process-local PositionStore backed by a mutex-guarded map,
// suitable for tests and short-lived CLI invocations.
type Memory struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewMemory returns an empty in-process position store.
func NewMemory() *Memory {
	return &Memory{seen: make(map[string]bool)}
}

// Reserve returns true the first time fingerprint is seen, false on every
// later call for the same fingerprint.
func (m *Memory) Reserve(fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[fingerprint] {
		return false, nil
	}
	m.seen[fingerprint] = true
	return true, nil
}
