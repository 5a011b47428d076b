package vector

import (
	"context"

	"github.com/openmuse/curio/core"
)

// Point is a single vector with its payload, ready for upsert.
type Point struct {
	ID         core.ID
	Vector     []float32
	SourceID   string
	ChunkIndex int
	Text       string
}

// Distance is the similarity metric of a collection.
type Distance string

// DistanceCosine orders results by cosine distance (1 - cosine similarity).
const DistanceCosine Distance = "cosine"

// CollectionConfig describes the vector collection to create.
type CollectionConfig struct {
	Name            string
	Dimensions      int
	Distance        Distance
	HnswM           uint64
	HnswEfConstruct uint64
}

// DefaultCollectionConfig returns the configuration used by the loader
// and server binaries unless overridden.
func DefaultCollectionConfig() CollectionConfig {
	return CollectionConfig{
		Name:            "curio_objects",
		Dimensions:      384,
		Distance:        DistanceCosine,
		HnswM:           16,
		HnswEfConstruct: 100,
	}
}

// Store is the vector database abstraction.
// Implementations must be thread-safe for concurrent use.
type Store interface {
	// EnsureCollection creates the collection if it does not already exist.
	EnsureCollection(ctx context.Context, cfg CollectionConfig) error

	// Upsert inserts or overwrites points by ID.
	Upsert(ctx context.Context, points []Point) error

	// Query returns up to limit nearest neighbors of the query vector,
	// ordered by non-decreasing cosine distance.
	Query(ctx context.Context, queryVector []float32, limit int) ([]core.SearchHit, error)

	// Close releases the underlying connection.
	Close() error
}
