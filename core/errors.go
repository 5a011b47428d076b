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


package core

import "errors"

// Validation errors. These surface as 400 responses at the HTTP boundary.
var (
	ErrEmptyQuery          = errors.New("query must not be empty")
	ErrInvalidTopK         = errors.New("top_k must be between 1 and 100")
	ErrInvalidResponseType = errors.New("response_type must be 'full' or 'answer_only'")
)

// Ingestion input errors.
var (
	ErrSourceUnreadable = errors.New("source directory is not readable")
	ErrBadDocument      = errors.New("document could not be parsed")
	ErrMissingSourceID  = errors.New("document has no source id")
	ErrEmptyDocument    = errors.New("document has no text content")
)

// Dependency errors. ErrBackendUnavailable covers the vector database,
// ErrUpstreamModel the embedding and generation endpoints at query time,
// ErrEmbedding embedding failures during ingestion.
var (
	ErrEmbedding          = errors.New("embedding failed")
	ErrBackendUnavailable = errors.New("vector backend unavailable")
	ErrUpstreamModel      = errors.New("upstream model error")
)
