package core

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for vector points.
// It is generated deterministically from chunk content so that
// re-ingesting the same document overwrites rather than duplicates.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// HashContent computes a hex-encoded BLAKE2b-256 digest over raw file bytes.
// The digest covers the full content, not just the document identifier, so
// any change to a document (including metadata fields) produces a new hash.
func HashContent(data []byte) string {
	h, _ := blake2b.New(32, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Document is a single art-object record parsed from a source JSON file.
// Documents are immutable once ingested; re-ingestion is idempotent via
// the content hash kept in the hash store.
type Document struct {
	SourceID    string
	Title       string
	Description string
	Text        string
	Artist      string
	Culture     string
	Medium      string
	CreditLine  string
}

// Content assembles the document's searchable text representation.
// Empty fields are omitted.
func (d *Document) Content() string {
	var parts []string
	for _, f := range []struct {
		label string
		value string
	}{
		{"Title", d.Title},
		{"Description", d.Description},
		{"Text", d.Text},
		{"Artist", d.Artist},
		{"Culture", d.Culture},
		{"Medium", d.Medium},
		{"Creditline", d.CreditLine},
	} {
		if f.value != "" {
			parts = append(parts, f.label+": "+f.value)
		}
	}
	return strings.Join(parts, "\n")
}

// Chunk is a bounded-size slice of a document's text, the unit of
// embedding and retrieval. Chunks are never updated in place; they are
// re-created when the owning document's content hash changes.
type Chunk struct {
	SourceID string
	Index    int
	Text     string
}

// PointID returns the deterministic vector point ID for this chunk.
func (c *Chunk) PointID() ID {
	return IDFromContent(fmt.Sprintf("%s_chunk_%d", c.SourceID, c.Index))
}

// FileHash maps a source file to the content hash recorded at its last
// successful ingestion. Overwritten whenever the content changes.
type FileHash struct {
	Path      string
	Hash      string
	UpdatedAt time.Time
}

// CommitRecord tracks the last source-repository commit that was ingested,
// enabling incremental runs that only process changed files.
type CommitRecord struct {
	Hash       string
	IngestedAt time.Time
}

// SearchHit is a single nearest-neighbor result. Distance is the
// collection's configured metric (cosine distance here): lower is more
// similar, and result sets are ordered by non-decreasing distance.
type SearchHit struct {
	Chunk    Chunk
	Distance float32
}
