package positionstore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Badger is a durable PositionStore backed by BadgerDB.
type Badger struct {
	db *badger.DB
}

// NewBadger opens (creating if necessary) a BadgerDB at path to back a
// durable position store.
func NewBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("positionstore: opening database: %w", err)
	}
	return &Badger{db: db}, nil
}

// Close closes the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// Reserve returns true the first time fingerprint is seen, false on every
// later call for the same fingerprint, persisting across process restarts.
func (b *Badger) Reserve(fingerprint string) (bool, error) {
	key := []byte("position:" + fingerprint)
	reserved := false

	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			// Already reserved by a previous Sign call.
			return nil
		case errors.Is(err, badger.ErrKeyNotFound):
			if err := txn.Set(key, []byte{1}); err != nil {
				return fmt.Errorf("failed to reserve position: %w", err)
			}
			reserved = true
			return nil
		default:
			return fmt.Errorf("failed to check position: %w", err)
		}
	})
	if err != nil {
		return false, err
	}
	return reserved, nil
}
