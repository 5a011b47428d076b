package rag

import (
	"fmt"
	"strings"

	"github.com/openmuse/curio/core"
)

// answerInstruction is the system prompt for grounded generation.
const answerInstruction = "You are a helpful assistant. Use only context."

// noDocumentsAnswer is returned when retrieval finds nothing.
const noDocumentsAnswer = "No documents found."

// chunkSeparator joins retrieved chunks into the context block.
const chunkSeparator = "\n---\n"

// buildUserPrompt assembles the user message from the retrieved context
// and the question.
func buildUserPrompt(contextBlock, query string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, query)
}

// joinChunks concatenates retrieved chunk texts into the context block.
func joinChunks(hits []core.SearchHit) string {
	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Chunk.Text
	}
	return strings.Join(texts, chunkSeparator)
}
