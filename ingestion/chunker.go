package ingestion

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/openmuse/curio/core"
)

const (
	// DefaultChunkTokens is the token window for each chunk.
	DefaultChunkTokens = 800
	// DefaultChunkOverlap is the number of tokens shared by adjacent chunks.
	DefaultChunkOverlap = 100

	chunkEncoding = "cl100k_base"
)

// tokenCodec is the subset of the tiktoken API the chunker needs.
// Abstracted so tests can substitute a tokenizer that needs no BPE download.
type tokenCodec interface {
	Encode(text string, allowedSpecial, disallowedSpecial []string) []int
	Decode(tokens []int) string
}

// Chunker splits document content into overlapping token windows.
type Chunker struct {
	codec     tokenCodec
	maxTokens int
	overlap   int
}

// NewChunker creates a chunker over the cl100k_base encoding with the
// default window and overlap.
func NewChunker() (*Chunker, error) {
	codec, err := tiktoken.GetEncoding(chunkEncoding)
	if err != nil {
		return nil, err
	}
	return newChunkerWithCodec(codec, DefaultChunkTokens, DefaultChunkOverlap), nil
}

func newChunkerWithCodec(codec tokenCodec, maxTokens, overlap int) *Chunker {
	if maxTokens < 1 {
		maxTokens = DefaultChunkTokens
	}
	if overlap < 0 || overlap >= maxTokens {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{codec: codec, maxTokens: maxTokens, overlap: overlap}
}

// Chunk splits the document's assembled content into chunks. Documents
// within the token window produce a single chunk.
func (c *Chunker) Chunk(doc *core.Document) []core.Chunk {
	content := doc.Content()
	if content == "" {
		return nil
	}

	tokens := c.codec.Encode(content, nil, nil)
	if len(tokens) <= c.maxTokens {
		return []core.Chunk{{SourceID: doc.SourceID, Index: 0, Text: content}}
	}

	var chunks []core.Chunk
	step := c.maxTokens - c.overlap
	for start, idx := 0, 0; start < len(tokens); start, idx = start+step, idx+1 {
		end := start + c.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, core.Chunk{
			SourceID: doc.SourceID,
			Index:    idx,
			Text:     c.codec.Decode(tokens[start:end]),
		})
		if end == len(tokens) {
			break
		}
	}
	return chunks
}
