package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/openmuse/curio/core"
	"github.com/openmuse/curio/storage"
)

// CommitStore implements storage.CommitStore for BadgerDB.
type CommitStore struct {
	backend *Backend
}

var _ storage.CommitStore = (*CommitStore)(nil)

// NewCommitStore creates a commit store on the given backend.
//
// Returns storage.CommitStore interface to enforce abstraction.
func NewCommitStore(backend *Backend) storage.CommitStore {
	return &CommitStore{backend: backend}
}

// LastCommit returns the most recently recorded commit.
// Returns storage.ErrNotFound if no commit has been recorded.
func (s *CommitStore) LastCommit(ctx context.Context) (*core.CommitRecord, error) {
	var record *core.CommitRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(lastCommitKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalCommitRecord(val)
			return unmarshalErr
		})
	}, false)

	return record, err
}

// PutCommit records a commit, replacing the previous one.
func (s *CommitStore) PutCommit(ctx context.Context, record core.CommitRecord) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if record.IngestedAt.IsZero() {
			record.IngestedAt = time.Now().UTC()
		}
		if err := tx.Set([]byte(lastCommitKey), storage.MarshalCommitRecord(&record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close is a no-op; the shared backend is closed by its owner.
func (s *CommitStore) Close() error {
	return nil
}
