// Copyright 2025 Openmuse Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package curio

import (
	"context"
	"log/slog"

	"github.com/openmuse/curio/ai"
	"github.com/openmuse/curio/ai/openai"
	"github.com/openmuse/curio/config"
	"github.com/openmuse/curio/ingestion"
	"github.com/openmuse/curio/rag"
	"github.com/openmuse/curio/search"
	"github.com/openmuse/curio/storage"
	"github.com/openmuse/curio/storage/badger"
	"github.com/openmuse/curio/vector"
	"github.com/openmuse/curio/vector/qdrant"
)

func aiConfigFrom(cfg *config.Config) *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithGeneratorHost(cfg.AI.GeneratorHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithGeneratorModel(cfg.AI.GeneratorModel),
		ai.WithEmbeddingDimensions(cfg.AI.EmbeddingDimensions),
		ai.WithMaxTokens(cfg.AI.MaxTokens),
		ai.WithTemperature(cfg.AI.Temperature),
	)
}

func collectionConfigFrom(cfg *config.Config) vector.CollectionConfig {
	collection := vector.DefaultCollectionConfig()
	if cfg.Qdrant.Collection != "" {
		collection.Name = cfg.Qdrant.Collection
	}
	if cfg.AI.EmbeddingDimensions > 0 {
		collection.Dimensions = cfg.AI.EmbeddingDimensions
	}
	if cfg.Qdrant.HnswM > 0 {
		collection.HnswM = cfg.Qdrant.HnswM
	}
	if cfg.Qdrant.HnswEfConstruct > 0 {
		collection.HnswEfConstruct = cfg.Qdrant.HnswEfConstruct
	}
	return collection
}

// QueryService wires the retrieval and answering services the HTTP server
// exposes. It owns the vector store connection and the AI provider.
type QueryService struct {
	store    *qdrant.Store
	provider ai.AIProvider
	searcher *search.Searcher
	answerer *rag.Answerer
	logger   *slog.Logger
}

// NewQueryService connects to the vector store and the AI services from
// the given configuration.
func NewQueryService(cfg *config.Config) (*QueryService, error) {
	store, err := qdrant.NewStore(cfg.Qdrant.Addr, collectionConfigFrom(cfg))
	if err != nil {
		return nil, err
	}

	provider, err := openai.NewProvider(aiConfigFrom(cfg))
	if err != nil {
		store.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(store, provider)
	if err != nil {
		provider.Close()
		store.Close()
		return nil, err
	}

	answerer, err := rag.NewAnswerer(searcher, provider)
	if err != nil {
		provider.Close()
		store.Close()
		return nil, err
	}

	return &QueryService{
		store:    store,
		provider: provider,
		searcher: searcher,
		answerer: answerer,
		logger:   slog.Default(),
	}, nil
}

func (q *QueryService) Searcher() *search.Searcher {
	return q.searcher
}

func (q *QueryService) Answerer() *rag.Answerer {
	return q.answerer
}

func (q *QueryService) Close() error {
	if err := q.provider.Close(); err != nil {
		q.logger.Error("error closing AI provider", "err", err)
	}
	if err := q.store.Close(); err != nil {
		q.logger.Error("error closing vector store", "err", err)
		return err
	}
	return nil
}

// Loader wires everything batch ingestion needs: the local state database,
// the vector store connection, and the AI provider.
type Loader struct {
	backend  *badger.Backend
	hashes   storage.HashStore
	commits  storage.CommitStore
	store    *qdrant.Store
	provider ai.AIProvider
	cfg      *config.Config
	logger   *slog.Logger
}

// NewLoader opens the ingestion state database and connects to the vector
// store and AI services from the given configuration.
func NewLoader(cfg *config.Config) (*Loader, error) {
	backend, err := badger.OpenBackend(cfg.Loader.StatePath, false)
	if err != nil {
		return nil, err
	}

	store, err := qdrant.NewStore(cfg.Qdrant.Addr, collectionConfigFrom(cfg))
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(aiConfigFrom(cfg))
	if err != nil {
		store.Close()
		backend.Close()
		return nil, err
	}

	return &Loader{
		backend:  backend,
		hashes:   badger.NewHashStore(backend),
		commits:  badger.NewCommitStore(backend),
		store:    store,
		provider: provider,
		cfg:      cfg,
		logger:   slog.Default(),
	}, nil
}

// EnsureCollection creates the vector collection if it does not exist.
func (l *Loader) EnsureCollection(ctx context.Context) error {
	return l.store.EnsureCollection(ctx, collectionConfigFrom(l.cfg))
}

// NewPipeline builds an ingestion pipeline from the loader configuration.
// Caller options are applied after the configured ones and win.
func (l *Loader) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	configured := make([]ingestion.Option, 0, 3+len(opts))
	if l.cfg.Loader.PoolSize > 0 {
		configured = append(configured, ingestion.WithPoolSize(l.cfg.Loader.PoolSize))
	}
	if l.cfg.Loader.EmbedBatchSize > 0 {
		configured = append(configured, ingestion.WithEmbedBatchSize(l.cfg.Loader.EmbedBatchSize))
	}
	if l.cfg.Loader.Incremental {
		configured = append(configured, ingestion.WithCommitTracking(l.commits))
	}
	configured = append(configured, opts...)

	return ingestion.NewPipeline(l.store, l.hashes, l.provider, configured...)
}

func (l *Loader) Close() error {
	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing AI provider", "err", err)
	}
	if err := l.store.Close(); err != nil {
		l.logger.Error("error closing vector store", "err", err)
	}
	if err := l.hashes.Close(); err != nil {
		l.logger.Error("error closing hash store", "err", err)
	}
	if err := l.commits.Close(); err != nil {
		l.logger.Error("error closing commit store", "err", err)
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing state database", "err", err)
		return err
	}
	return nil
}
