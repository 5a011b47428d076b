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

import (
	"fmt"
	"strings"
)

const (
	// DefaultTopK is used when a request omits top_k entirely.
	DefaultTopK = 5
	// MaxTopK bounds the number of results a single query may request.
	MaxTopK = 100
)

// Response types accepted by the ask endpoint.
const (
	ResponseTypeFull       = "full"
	ResponseTypeAnswerOnly = "answer_only"
)

// ValidateQuery rejects empty or whitespace-only query strings.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// ValidateTopK resolves the requested result count. A nil value means the
// caller omitted the field and gets the default; an explicit value outside
// [1, MaxTopK] is an error, never silently clamped.
func ValidateTopK(topK *int) (int, error) {
	if topK == nil {
		return DefaultTopK, nil
	}
	if *topK < 1 || *topK > MaxTopK {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTopK, *topK)
	}
	return *topK, nil
}

// ValidateResponseType resolves the ask response format. Empty means full.
func ValidateResponseType(responseType string) (string, error) {
	switch responseType {
	case "":
		return ResponseTypeFull, nil
	case ResponseTypeFull, ResponseTypeAnswerOnly:
		return responseType, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidResponseType, responseType)
	}
}

// ValidateDocument checks that a parsed document is ingestable.
func ValidateDocument(doc *Document) error {
	if doc.SourceID == "" {
		return ErrMissingSourceID
	}
	if strings.TrimSpace(doc.Content()) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyDocument, doc.SourceID)
	}
	return nil
}
