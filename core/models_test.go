package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContentDeterministic(t *testing.T) {
	a := IDFromContent("obj-42_chunk_0")
	b := IDFromContent("obj-42_chunk_0")
	c := IDFromContent("obj-42_chunk_1")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestHashContent(t *testing.T) {
	h1 := HashContent([]byte(`{"id": 1, "title": "Irises"}`))
	h2 := HashContent([]byte(`{"id": 1, "title": "Irises"}`))
	h3 := HashContent([]byte(`{"id": 1, "title": "Irises "}`))

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestDocumentContent(t *testing.T) {
	doc := Document{
		SourceID:    "obj-1",
		Title:       "Bouquet of Flowers in a Vase",
		Artist:      "Vincent van Gogh",
		Medium:      "Oil on canvas",
		Description: "A still life of flowers.",
	}

	content := doc.Content()
	assert.Equal(t,
		"Title: Bouquet of Flowers in a Vase\n"+
			"Description: A still life of flowers.\n"+
			"Artist: Vincent van Gogh\n"+
			"Medium: Oil on canvas",
		content)
}

func TestDocumentContentEmpty(t *testing.T) {
	doc := Document{SourceID: "obj-2"}
	assert.Empty(t, doc.Content())
}

func TestChunkPointID(t *testing.T) {
	c1 := Chunk{SourceID: "obj-1", Index: 0, Text: "first"}
	c2 := Chunk{SourceID: "obj-1", Index: 0, Text: "rewritten"}
	c3 := Chunk{SourceID: "obj-1", Index: 1, Text: "first"}

	// Point identity depends on source and index only, so re-ingesting
	// changed text overwrites the same point.
	assert.Equal(t, c1.PointID(), c2.PointID())
	assert.NotEqual(t, c1.PointID(), c3.PointID())
}
