package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/openmuse/curio/ai"
	"github.com/openmuse/curio/core"
	"github.com/openmuse/curio/storage"
	"github.com/openmuse/curio/vector"
)

const (
	// DefaultEmbedBatchSize is the number of chunks embedded per API call.
	DefaultEmbedBatchSize = 64
	// DefaultHashBatchSize is the number of hash records written per transaction.
	DefaultHashBatchSize = 5000

	embedMaxAttempts = 3
	embedBaseDelay   = 500 * time.Millisecond
)

// Pipeline orchestrates batch ingestion of documents into the vector store.
// It manages concurrent embedding and upsert of documents on a worker pool.
type Pipeline struct {
	store          vector.Store
	hashes         storage.HashStore
	commits        storage.CommitStore
	provider       ai.AIProvider
	chunker        *Chunker
	pool           *ants.Pool
	embedBatchSize int
	hashBatchSize  int
	incremental    bool
	progressWriter io.Writer
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunker sets a custom chunker.
// Default is a cl100k_base chunker with the standard window and overlap.
func WithChunker(chunker *Chunker) Option {
	return func(p *Pipeline) error {
		if chunker != nil {
			p.chunker = chunker
		}
		return nil
	}
}

// WithEmbedBatchSize sets how many chunks are embedded per API call.
func WithEmbedBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size > 0 {
			p.embedBatchSize = size
		}
		return nil
	}
}

// WithCommitTracking enables incremental runs against a git checkout.
// The pipeline skips the run when HEAD matches the recorded commit and
// otherwise narrows the scan to files changed since it.
func WithCommitTracking(commits storage.CommitStore) Option {
	return func(p *Pipeline) error {
		p.commits = commits
		p.incremental = commits != nil
		return nil
	}
}

// WithProgressWriter sets the destination for progress output.
// Default is os.Stderr.
func WithProgressWriter(w io.Writer) Option {
	return func(p *Pipeline) error {
		if w != nil {
			p.progressWriter = w
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	store vector.Store,
	hashes storage.HashStore,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if hashes == nil {
		return nil, ErrHashStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:          store,
		hashes:         hashes,
		provider:       provider,
		pool:           pool,
		embedBatchSize: DefaultEmbedBatchSize,
		hashBatchSize:  DefaultHashBatchSize,
		progressWriter: os.Stderr,
		logger:         slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// The tokenizer fetches its BPE table on first use, so only build the
	// default chunker when no custom one was injected.
	if p.chunker == nil {
		chunker, err := NewChunker()
		if err != nil {
			p.Release()
			return nil, err
		}
		p.chunker = chunker
	}

	return p, nil
}

// Report summarizes an ingestion run.
type Report struct {
	Scanned  int // source files considered
	Skipped  int // files with unchanged content hashes
	Ingested int // documents embedded and upserted
	Chunks   int // chunks upserted
	Failed   int // documents that could not be processed
}

// Run ingests the JSON documents under sourceDir. A limit of 0 means no
// limit. Per-document failures are counted and joined into the returned
// error; the rest of the run proceeds.
func (p *Pipeline) Run(ctx context.Context, sourceDir string, limit int) (*Report, error) {
	report := &Report{}

	paths, head, upToDate, truncated, err := p.selectFiles(ctx, sourceDir, limit)
	if err != nil {
		return report, err
	}
	if upToDate {
		p.logger.Info("source is up to date, nothing to ingest", "commit", head)
		return report, nil
	}
	report.Scanned = len(paths)

	progress := NewProgressTracker(p.progressWriter, len(paths), 10)
	progress.Start()
	defer progress.Finish()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		errs    []error
		pending []core.FileHash
	)

	flushHashes := func(force bool) error {
		mu.Lock()
		defer mu.Unlock()
		if len(pending) == 0 || (!force && len(pending) < p.hashBatchSize) {
			return nil
		}
		if err := p.hashes.PutHashes(ctx, pending); err != nil {
			return err
		}
		pending = pending[:0]
		return nil
	}

	for _, path := range paths {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			p.logger.Warn("skipping unreadable file", "path", path, "err", readErr)
			mu.Lock()
			report.Failed++
			errs = append(errs, fmt.Errorf("%w: %s: %w", core.ErrSourceUnreadable, path, readErr))
			mu.Unlock()
			progress.Increment(1)
			continue
		}

		hash := core.HashContent(data)
		stored, hashErr := p.hashes.GetHash(ctx, path)
		if hashErr != nil && !errors.Is(hashErr, storage.ErrNotFound) {
			return report, hashErr
		}
		if hashErr == nil && stored == hash {
			report.Skipped++
			progress.Increment(1)
			continue
		}

		doc, parseErr := parseDocument(path, data)
		if parseErr != nil {
			p.logger.Warn("skipping bad document", "path", path, "err", parseErr)
			mu.Lock()
			report.Failed++
			errs = append(errs, parseErr)
			mu.Unlock()
			progress.Increment(1)
			continue
		}

		path := path
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			defer progress.Increment(1)

			chunks, procErr := p.processDocument(ctx, doc)

			mu.Lock()
			if procErr != nil {
				report.Failed++
				errs = append(errs, fmt.Errorf("%s: %w", doc.SourceID, procErr))
			} else {
				report.Ingested++
				report.Chunks += chunks
				pending = append(pending, core.FileHash{Path: path, Hash: hash, UpdatedAt: time.Now().UTC()})
			}
			mu.Unlock()

			if flushErr := flushHashes(false); flushErr != nil {
				p.logger.Error("error writing hash batch", "err", flushErr)
			}
		})
		if submitErr != nil {
			wg.Done()
			return report, submitErr
		}
	}

	wg.Wait()

	if err := flushHashes(true); err != nil {
		return report, err
	}

	// Only advance the commit marker on a fully clean run so failed
	// documents are retried next time. A limit-truncated scan leaves
	// unprocessed files behind, so the marker must not move either.
	if p.incremental && head != "" && report.Failed == 0 && !truncated {
		if err := p.commits.PutCommit(ctx, core.CommitRecord{Hash: head, IngestedAt: time.Now().UTC()}); err != nil {
			p.logger.Error("error recording commit", "commit", head, "err", err)
		}
	}

	p.logger.Info("ingestion run complete",
		"scanned", report.Scanned,
		"skipped", report.Skipped,
		"ingested", report.Ingested,
		"chunks", report.Chunks,
		"failed", report.Failed)

	return report, errors.Join(errs...)
}

// selectFiles decides which source files to consider. In incremental mode
// against a git checkout it narrows the scan to files changed since the
// recorded commit, and reports upToDate when HEAD matches it. truncated
// reports that a limit cut the list short of the full candidate set.
func (p *Pipeline) selectFiles(ctx context.Context, sourceDir string, limit int) (paths []string, head string, upToDate, truncated bool, err error) {
	if !p.incremental {
		paths, err = scanSource(sourceDir, limit)
		return paths, "", false, limitReached(paths, limit), err
	}

	head, gitErr := gitHead(ctx, sourceDir)
	if gitErr != nil {
		p.logger.Warn("source is not a git checkout, falling back to full scan", "err", gitErr)
		paths, err = scanSource(sourceDir, limit)
		return paths, "", false, limitReached(paths, limit), err
	}

	last, lastErr := p.commits.LastCommit(ctx)
	if lastErr != nil {
		if !errors.Is(lastErr, storage.ErrNotFound) {
			return nil, "", false, false, lastErr
		}
		paths, err = scanSource(sourceDir, limit)
		return paths, head, false, limitReached(paths, limit), err
	}

	if last.Hash == head {
		return nil, head, true, false, nil
	}

	changed, diffErr := gitChangedFiles(ctx, sourceDir, last.Hash, head)
	if diffErr != nil {
		p.logger.Warn("git diff failed, falling back to full scan", "err", diffErr)
		paths, err = scanSource(sourceDir, limit)
		return paths, head, false, limitReached(paths, limit), err
	}

	for _, path := range changed {
		if strings.EqualFold(filepath.Ext(path), ".json") {
			paths = append(paths, path)
			if limit > 0 && len(paths) >= limit {
				break
			}
		}
	}
	return paths, head, false, limitReached(paths, limit), nil
}

// limitReached treats a list that filled the limit as possibly truncated;
// the scan stops at the limit, so it cannot tell whether more files exist.
func limitReached(paths []string, limit int) bool {
	return limit > 0 && len(paths) >= limit
}

// processDocument chunks, embeds, and upserts a single document.
// Returns the number of chunks upserted.
func (p *Pipeline) processDocument(ctx context.Context, doc *core.Document) (int, error) {
	chunks := p.chunker.Chunk(doc)
	if len(chunks) == 0 {
		return 0, nil
	}

	embedder := p.provider.Embedder()

	for start := 0; start < len(chunks); start += p.embedBatchSize {
		end := start + p.embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		var vectors [][]float32
		embedErr := RetryWithBackoff(ctx, func() error {
			var err error
			vectors, err = embedder.EmbedTexts(ctx, texts)
			return err
		}, embedMaxAttempts, embedBaseDelay)
		if embedErr != nil {
			return 0, fmt.Errorf("%w: %w", core.ErrEmbedding, embedErr)
		}
		if len(vectors) != len(batch) {
			return 0, fmt.Errorf("%w: got %d vectors for %d chunks", core.ErrEmbedding, len(vectors), len(batch))
		}

		points := make([]vector.Point, len(batch))
		for i, c := range batch {
			points[i] = vector.Point{
				ID:         c.PointID(),
				Vector:     vectors[i],
				SourceID:   c.SourceID,
				ChunkIndex: c.Index,
				Text:       c.Text,
			}
		}

		if err := p.store.Upsert(ctx, points); err != nil {
			return 0, err
		}
	}

	return len(chunks), nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
