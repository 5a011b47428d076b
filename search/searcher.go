package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/openmuse/curio/ai"
	"github.com/openmuse/curio/core"
	"github.com/openmuse/curio/vector"
)

// DefaultQueryTimeout bounds each vector store query.
const DefaultQueryTimeout = 15 * time.Second

// Searcher provides semantic search over the vector collection.
type Searcher struct {
	store        vector.Store
	embedder     ai.Embedder
	queryTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithQueryTimeout bounds each vector store query.
// Default is DefaultQueryTimeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Searcher) error {
		if d > 0 {
			s.queryTimeout = d
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(store vector.Store, provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		store:        store,
		embedder:     provider.Embedder(),
		queryTimeout: DefaultQueryTimeout,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to topK chunks nearest to the query, ordered by
// non-decreasing distance. The query must be non-blank and topK in range;
// validation failures surface before any backend call.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]core.SearchHit, error) {
	return s.SearchWithMonitor(ctx, query, topK, nil)
}

// SearchWithMonitor is Search with per-stage callbacks.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, topK int, monitor SearchMonitor) ([]core.SearchHit, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if topK < 1 || topK > core.MaxTopK {
		return nil, fmt.Errorf("%w: got %d", core.ErrInvalidTopK, topK)
	}

	monitor.Start(query)

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("%w: query embedding: %w", core.ErrUpstreamModel, err)
	}
	monitor.AfterQueryEmbedding(embedding)

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	hits, err := s.store.Query(queryCtx, embedding, topK)
	if err != nil {
		s.logger.Error("error querying vector store", "err", err)
		return nil, err
	}
	monitor.AfterVectorQuery(hits)

	// The store contract already orders by distance; keep the guarantee
	// even for stores that don't.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	monitor.Finish(hits)
	return hits, nil
}
