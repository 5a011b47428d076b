package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedderConcurrentCalls(t *testing.T) {
	embedder := NewMockEmbedder()
	embedder.Dimensions = 8

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := embedder.EmbedTexts(context.Background(), []string{"a", "b"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, embedder.CallCount())
}

func TestMockGeneratorConcurrentCalls(t *testing.T) {
	generator := NewMockGenerator()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			answer, err := generator.GenerateAnswer(context.Background(), "system", "user")
			assert.NoError(t, err)
			assert.Equal(t, "mock answer", answer)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, generator.CallCount())
	system, user := generator.LastPrompts()
	assert.Equal(t, "system", system)
	assert.Equal(t, "user", user)
}

func TestDeterministicVector(t *testing.T) {
	a := DeterministicVector("Bouquet of Flowers", 16)
	b := DeterministicVector("Bouquet of Flowers", 16)
	c := DeterministicVector("Bronze Horse", 16)

	require.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	var sumSquares float64
	for _, v := range a {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sumSquares, 1e-5)
}
