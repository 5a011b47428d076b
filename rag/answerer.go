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


package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openmuse/curio/ai"
	"github.com/openmuse/curio/core"
	"github.com/openmuse/curio/search"
)

// DefaultGenerateTimeout bounds each generation call.
const DefaultGenerateTimeout = 60 * time.Second

// ErrSearcherRequired is returned when a searcher is not provided.
var ErrSearcherRequired = errors.New("searcher required")

// ErrAIProviderRequired is returned when an AI provider is not provided.
var ErrAIProviderRequired = errors.New("AI provider required")

// Source identifies a chunk that informed an answer.
type Source struct {
	SourceID   string
	ChunkIndex int
}

// Answer is the result of a grounded generation.
type Answer struct {
	Answer  string
	Sources []Source
}

// Answerer produces answers grounded in retrieved chunks.
type Answerer struct {
	searcher        *search.Searcher
	generator       ai.Generator
	generateTimeout time.Duration
	logger          *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithGenerateTimeout bounds each generation call.
// Default is DefaultGenerateTimeout.
func WithGenerateTimeout(d time.Duration) Option {
	return func(a *Answerer) error {
		if d > 0 {
			a.generateTimeout = d
		}
		return nil
	}
}

// NewAnswerer creates a new answerer over the given searcher and provider.
func NewAnswerer(searcher *search.Searcher, provider ai.AIProvider, opts ...Option) (*Answerer, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	a := &Answerer{
		searcher:        searcher,
		generator:       provider.Generator(),
		generateTimeout: DefaultGenerateTimeout,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Ask retrieves the topK chunks nearest to the query and generates an
// answer grounded in them. Zero retrieved chunks short-circuit to a fixed
// answer without calling the model.
func (a *Answerer) Ask(ctx context.Context, query string, topK int) (*Answer, error) {
	hits, err := a.searcher.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	if len(hits) == 0 {
		return &Answer{Answer: noDocumentsAnswer, Sources: []Source{}}, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, a.generateTimeout)
	defer cancel()

	answer, err := a.generator.GenerateAnswer(genCtx, answerInstruction, buildUserPrompt(joinChunks(hits), query))
	if err != nil {
		a.logger.Error("error generating answer", "err", err)
		return nil, fmt.Errorf("%w: generation: %w", core.ErrUpstreamModel, err)
	}

	sources := make([]Source, len(hits))
	for i, hit := range hits {
		sources[i] = Source{SourceID: hit.Chunk.SourceID, ChunkIndex: hit.Chunk.Index}
	}

	return &Answer{Answer: answer, Sources: sources}, nil
}
