package ingestion

import (
	"context"
	"io"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmuse/curio/ai/mock"
	badgerstore "github.com/openmuse/curio/storage/badger"
	"github.com/openmuse/curio/vector"
	"github.com/openmuse/curio/vector/memory"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	full := append([]string{
		"-C", dir,
		"-c", "user.name=curio",
		"-c", "user.email=curio@example.com",
		"-c", "commit.gpgsign=false",
	}, args...)
	out, err := exec.Command("git", full...).CombinedOutput()
	require.NoError(t, err, string(out))
}

func gitCommitAll(t *testing.T, dir, msg string) {
	t.Helper()
	gitCmd(t, dir, "add", "-A")
	gitCmd(t, dir, "commit", "-q", "-m", msg)
}

func newIncrementalPipeline(t *testing.T, store vector.Store) *Pipeline {
	t.Helper()

	hashes, commits, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 8
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	cfg := vector.DefaultCollectionConfig()
	cfg.Dimensions = 8
	require.NoError(t, store.EnsureCollection(context.Background(), cfg))

	p, err := NewPipeline(store, hashes, provider,
		WithChunker(newChunkerWithCodec(runeCodec{}, 200, 20)),
		WithProgressWriter(io.Discard),
		WithPoolSize(2),
		WithCommitTracking(commits))
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func TestRunIncrementalUpToDate(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	gitCmd(t, dir, "init", "-q")
	writeDoc(t, dir, "obj-1.json", `{"source_id": "obj-1", "title": "Irises"}`)
	gitCommitAll(t, dir, "add obj-1")

	store := memory.NewStore()
	p := newIncrementalPipeline(t, store)
	ctx := context.Background()

	report, err := p.Run(ctx, dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Ingested)

	// HEAD matches the recorded commit, so the run short-circuits before
	// touching any file.
	report, err = p.Run(ctx, dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Scanned)
	assert.Equal(t, 0, report.Ingested)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 1, store.Len())
}

func TestRunIncrementalProcessesOnlyChangedFiles(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	gitCmd(t, dir, "init", "-q")
	writeDoc(t, dir, "obj-1.json", `{"source_id": "obj-1", "title": "Irises"}`)
	writeDoc(t, dir, "obj-2.json", `{"source_id": "obj-2", "title": "Water Lilies"}`)
	gitCommitAll(t, dir, "add objects")

	store := memory.NewStore()
	p := newIncrementalPipeline(t, store)
	ctx := context.Background()

	report, err := p.Run(ctx, dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Ingested)

	writeDoc(t, dir, "obj-2.json", `{"source_id": "obj-2", "title": "Water Lilies", "culture": "French"}`)
	gitCommitAll(t, dir, "update obj-2")

	// The diff narrows the scan to the one changed file.
	report, err = p.Run(ctx, dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Ingested)
	assert.Equal(t, 2, store.Len())
}

func TestRunIncrementalLimitKeepsRemainingFiles(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	gitCmd(t, dir, "init", "-q")
	writeDoc(t, dir, "obj-1.json", `{"source_id": "obj-1", "title": "Irises"}`)
	writeDoc(t, dir, "obj-2.json", `{"source_id": "obj-2", "title": "Water Lilies"}`)
	gitCommitAll(t, dir, "add objects")

	store := memory.NewStore()
	p := newIncrementalPipeline(t, store)
	ctx := context.Background()

	report, err := p.Run(ctx, dir, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Ingested)

	// The truncated run must not advance the commit marker, so the next
	// full run still sees the file the limit cut off.
	report, err = p.Run(ctx, dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Ingested)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 2, store.Len())

	// Now everything is ingested and the marker is recorded.
	report, err = p.Run(ctx, dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Scanned)
}

func TestRunIncrementalFallsBackWithoutGit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	writeDoc(t, dir, "obj-1.json", `{"source_id": "obj-1", "title": "Irises"}`)

	store := memory.NewStore()
	p := newIncrementalPipeline(t, store)

	// Not a git checkout: commit tracking degrades to a full scan.
	report, err := p.Run(context.Background(), dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Ingested)
	assert.Equal(t, 1, store.Len())
}
