package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmuse/curio/ai/mock"
	"github.com/openmuse/curio/core"
	"github.com/openmuse/curio/vector"
	"github.com/openmuse/curio/vector/memory"
)

func seedStore(t *testing.T, texts map[string]string) (*memory.Store, *mock.MockEmbedder) {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 16

	store := memory.NewStore()
	cfg := vector.DefaultCollectionConfig()
	cfg.Dimensions = 16
	require.NoError(t, store.EnsureCollection(context.Background(), cfg))

	i := 0
	for sourceID, text := range texts {
		require.NoError(t, store.Upsert(context.Background(), []vector.Point{{
			ID:       core.ID(i + 1),
			Vector:   mock.DeterministicVector(text, 16),
			SourceID: sourceID,
			Text:     text,
		}}))
		i++
	}
	return store, embedder
}

func TestSearchReturnsNearestFirst(t *testing.T) {
	store, embedder := seedStore(t, map[string]string{
		"obj-1": "a painting of flowers in a vase",
		"obj-2": "a bronze sculpture of a horse",
	})
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	s, err := NewSearcher(store, provider)
	require.NoError(t, err)

	// The mock embeds identical text to identical vectors, so querying
	// with an indexed text must rank it first at distance zero.
	hits, err := s.Search(context.Background(), "a painting of flowers in a vase", 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "obj-1", hits[0].Chunk.SourceID)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-5)
	assert.LessOrEqual(t, hits[0].Distance, hits[1].Distance)
}

func TestSearchRespectsTopK(t *testing.T) {
	store, embedder := seedStore(t, map[string]string{
		"obj-1": "one", "obj-2": "two", "obj-3": "three", "obj-4": "four",
	})
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	s, err := NewSearcher(store, provider)
	require.NoError(t, err)

	hits, err := s.Search(context.Background(), "one", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchValidation(t *testing.T) {
	store, embedder := seedStore(t, nil)
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	s, err := NewSearcher(store, provider)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Search(ctx, "   ", 5)
	assert.ErrorIs(t, err, core.ErrEmptyQuery)

	_, err = s.Search(ctx, "flowers", 0)
	assert.ErrorIs(t, err, core.ErrInvalidTopK)

	_, err = s.Search(ctx, "flowers", core.MaxTopK+1)
	assert.ErrorIs(t, err, core.ErrInvalidTopK)

	// Validation failures never reach the embedder.
	assert.Equal(t, 0, embedder.CallCount())
}

func TestSearchEmbeddingFailure(t *testing.T) {
	store, embedder := seedStore(t, nil)
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("model offline")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	s, err := NewSearcher(store, provider)
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "flowers", 5)
	assert.ErrorIs(t, err, core.ErrUpstreamModel)
}

type recordingMonitor struct {
	started  bool
	embedded bool
	queried  bool
	finished bool
}

func (m *recordingMonitor) Start(_ string)                      { m.started = true }
func (m *recordingMonitor) AfterQueryEmbedding(_ []float32)     { m.embedded = true }
func (m *recordingMonitor) AfterVectorQuery(_ []core.SearchHit) { m.queried = true }
func (m *recordingMonitor) Finish(_ []core.SearchHit)           { m.finished = true }

func TestSearchMonitorCallbacks(t *testing.T) {
	store, embedder := seedStore(t, map[string]string{"obj-1": "text"})
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	s, err := NewSearcher(store, provider)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	_, err = s.SearchWithMonitor(context.Background(), "text", 5, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.True(t, monitor.embedded)
	assert.True(t, monitor.queried)
	assert.True(t, monitor.finished)
}
