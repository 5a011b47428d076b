// Package memory provides an in-memory vector.Store using an exact
// cosine scan. Intended for tests and offline experimentation, not for
// large collections.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/openmuse/curio/core"
	"github.com/openmuse/curio/vector"
)

// Store is an in-memory vector.Store. Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	points     map[core.ID]vector.Point
	dimensions int
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{points: make(map[core.ID]vector.Point)}
}

// EnsureCollection records the collection dimensionality. Only the
// cosine metric is supported.
func (s *Store) EnsureCollection(ctx context.Context, cfg vector.CollectionConfig) error {
	if cfg.Distance != vector.DistanceCosine && cfg.Distance != "" {
		return fmt.Errorf("unsupported distance metric %q", cfg.Distance)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimensions = cfg.Dimensions
	return nil
}

// Upsert inserts or overwrites points by ID.
func (s *Store) Upsert(ctx context.Context, points []vector.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if s.dimensions > 0 && len(p.Vector) != s.dimensions {
			return fmt.Errorf("%w: got %d, collection expects %d",
				vector.ErrDimensionMismatch, len(p.Vector), s.dimensions)
		}
		s.points[p.ID] = p
	}
	return nil
}

// Query scans all points and returns up to limit nearest neighbors,
// ordered by non-decreasing cosine distance.
func (s *Store) Query(ctx context.Context, queryVector []float32, limit int) ([]core.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dimensions > 0 && len(queryVector) != s.dimensions {
		return nil, fmt.Errorf("%w: got %d, collection expects %d",
			vector.ErrDimensionMismatch, len(queryVector), s.dimensions)
	}

	hits := make([]core.SearchHit, 0, len(s.points))
	for _, p := range s.points {
		hits = append(hits, core.SearchHit{
			Chunk: core.Chunk{
				SourceID: p.SourceID,
				Index:    p.ChunkIndex,
				Text:     p.Text,
			},
			Distance: 1 - cosineSimilarity(queryVector, p.Vector),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Len returns the number of stored points.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
