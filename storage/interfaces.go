package storage

import (
	"context"

	"github.com/openmuse/curio/core"
)

// HashStore tracks the content hash recorded for each ingested source file.
// Implementations must be thread-safe for concurrent use.
type HashStore interface {
	// GetHash returns the hash recorded for the given file path.
	// Returns ErrNotFound if the path has never been ingested.
	GetHash(ctx context.Context, path string) (string, error)

	// PutHashes records content hashes for ingested files, overwriting
	// any previous values.
	PutHashes(ctx context.Context, hashes []core.FileHash) error

	// Close releases resources held by the store.
	Close() error
}

// CommitStore tracks the last source repository commit that was ingested.
// Implementations must be thread-safe for concurrent use.
type CommitStore interface {
	// LastCommit returns the most recently recorded commit.
	// Returns ErrNotFound if no commit has been recorded.
	LastCommit(ctx context.Context) (*core.CommitRecord, error)

	// PutCommit records a commit, replacing the previous one.
	PutCommit(ctx context.Context, record core.CommitRecord) error

	// Close releases resources held by the store.
	Close() error
}
