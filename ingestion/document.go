package ingestion

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/openmuse/curio/core"
)

// rawDocument mirrors the source JSON schema. Identifiers appear as either
// strings or numbers in the corpus, so they are decoded lazily.
type rawDocument struct {
	SourceID    json.RawMessage `json:"source_id"`
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Text        string          `json:"text"`
	Artist      string          `json:"artist"`
	Culture     string          `json:"culture"`
	Medium      string          `json:"medium"`
	CreditLine  string          `json:"creditline"`
}

// parseDocument decodes a source JSON file into a core.Document.
// The source id comes from "source_id", falling back to "id", falling back
// to the file name without extension.
func parseDocument(path string, data []byte) (*core.Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrBadDocument, path, err)
	}

	sourceID := decodeID(raw.SourceID)
	if sourceID == "" {
		sourceID = decodeID(raw.ID)
	}
	if sourceID == "" {
		sourceID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	doc := &core.Document{
		SourceID:    sourceID,
		Title:       raw.Title,
		Description: raw.Description,
		Text:        raw.Text,
		Artist:      raw.Artist,
		Culture:     raw.Culture,
		Medium:      raw.Medium,
		CreditLine:  raw.CreditLine,
	}

	if err := core.ValidateDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrBadDocument, path, err)
	}
	return doc, nil
}

// decodeID accepts a JSON string or number and returns its string form.
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
