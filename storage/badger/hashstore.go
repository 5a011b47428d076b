package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/openmuse/curio/core"
	"github.com/openmuse/curio/storage"
)

// HashStore implements storage.HashStore for BadgerDB.
type HashStore struct {
	backend *Backend
}

var _ storage.HashStore = (*HashStore)(nil)

// NewHashStore creates a hash store on the given backend.
//
// Returns storage.HashStore interface to enforce abstraction.
func NewHashStore(backend *Backend) storage.HashStore {
	return &HashStore{backend: backend}
}

// GetHash returns the hash recorded for the given file path.
// Returns storage.ErrNotFound if the path has never been ingested.
func (s *HashStore) GetHash(ctx context.Context, path string) (string, error) {
	var hash string
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeFileHashKey(path))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			record, unmarshalErr := storage.UnmarshalFileHash(val)
			if unmarshalErr != nil {
				return unmarshalErr
			}
			hash = record.Hash
			return nil
		})
	}, false)

	return hash, err
}

// PutHashes records content hashes for ingested files.
// All records in the batch are written in a single transaction.
func (s *HashStore) PutHashes(ctx context.Context, hashes []core.FileHash) error {
	if len(hashes) == 0 {
		return nil
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for i := range hashes {
			record := hashes[i]
			if record.UpdatedAt.IsZero() {
				record.UpdatedAt = now
			}
			if err := tx.Set(makeFileHashKey(record.Path), storage.MarshalFileHash(&record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Close is a no-op; the shared backend is closed by its owner.
func (s *HashStore) Close() error {
	return nil
}
