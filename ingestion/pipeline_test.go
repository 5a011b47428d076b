package ingestion

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmuse/curio/ai/mock"
	badgerstore "github.com/openmuse/curio/storage/badger"
	"github.com/openmuse/curio/vector"
	"github.com/openmuse/curio/vector/memory"
)

func writeDoc(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func newTestPipeline(t *testing.T, store vector.Store, opts ...Option) *Pipeline {
	t.Helper()

	hashes, _, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 8
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	cfg := vector.DefaultCollectionConfig()
	cfg.Dimensions = 8
	require.NoError(t, store.EnsureCollection(context.Background(), cfg))

	opts = append([]Option{
		WithChunker(newChunkerWithCodec(runeCodec{}, 200, 20)),
		WithProgressWriter(io.Discard),
		WithPoolSize(2),
	}, opts...)

	p, err := NewPipeline(store, hashes, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func TestRunIngestsDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "obj-1.json", `{"source_id": "obj-1", "title": "Irises", "artist": "Vincent van Gogh"}`)
	writeDoc(t, dir, "obj-2.json", `{"source_id": "obj-2", "title": "Water Lilies", "artist": "Claude Monet"}`)
	writeDoc(t, dir, "notes.txt", "not a document")

	store := memory.NewStore()
	p := newTestPipeline(t, store)

	report, err := p.Run(context.Background(), dir, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 2, report.Ingested)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 2, store.Len())
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "obj-1.json", `{"source_id": "obj-1", "title": "Irises"}`)

	store := memory.NewStore()
	p := newTestPipeline(t, store)
	ctx := context.Background()

	report, err := p.Run(ctx, dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Ingested)

	// Second run sees an unchanged hash and touches nothing.
	report, err = p.Run(ctx, dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Ingested)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, store.Len())
}

func TestRunReprocessesChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "obj-1.json", `{"source_id": "obj-1", "title": "Irises"}`)

	store := memory.NewStore()
	p := newTestPipeline(t, store)
	ctx := context.Background()

	_, err := p.Run(ctx, dir, 0)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"source_id": "obj-1", "title": "Irises", "culture": "Dutch"}`), 0644))

	report, err := p.Run(ctx, dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Ingested)
	assert.Equal(t, 0, report.Skipped)

	// Same source and chunk index, so the point was overwritten.
	assert.Equal(t, 1, store.Len())
}

func TestRunSkipsBadDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "good.json", `{"source_id": "obj-1", "title": "Irises"}`)
	writeDoc(t, dir, "bad.json", `{"title": `)

	store := memory.NewStore()
	p := newTestPipeline(t, store)

	report, err := p.Run(context.Background(), dir, 0)
	assert.Error(t, err)
	assert.Equal(t, 1, report.Ingested)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, store.Len())
}

func TestRunEmbeddingFailure(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "obj-1.json", `{"source_id": "obj-1", "title": "Irises"}`)

	hashes, _, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("connection refused")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	store := memory.NewStore()
	p, err := NewPipeline(store, hashes, provider,
		WithChunker(newChunkerWithCodec(runeCodec{}, 200, 20)),
		WithProgressWriter(io.Discard))
	require.NoError(t, err)
	t.Cleanup(p.Release)

	report, err := p.Run(context.Background(), dir, 0)
	assert.Error(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Ingested)
	assert.Equal(t, 0, store.Len())

	// No hash was recorded, so the next run retries the document.
	embedder.EmbedTextsFunc = nil
	embedder.Dimensions = 8
	report, err = p.Run(context.Background(), dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Ingested)
}

func TestRunHonorsLimit(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "b.json", "c.json"} {
		writeDoc(t, dir, name, `{"source_id": "`+name+`", "title": "Piece"}`)
	}

	store := memory.NewStore()
	p := newTestPipeline(t, store)

	report, err := p.Run(context.Background(), dir, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 2, report.Ingested)
}

func TestRunMissingSource(t *testing.T) {
	store := memory.NewStore()
	p := newTestPipeline(t, store)

	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "missing"), 0)
	assert.Error(t, err)
}

func TestNewPipelineRequiresDependencies(t *testing.T) {
	hashes, _, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	provider := mock.NewMockProvider()
	store := memory.NewStore()

	_, err = NewPipeline(nil, hashes, provider)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)

	_, err = NewPipeline(store, nil, provider)
	assert.ErrorIs(t, err, ErrHashStoreRequired)

	_, err = NewPipeline(store, hashes, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}
