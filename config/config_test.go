package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr())
	assert.Equal(t, "localhost:6334", cfg.Qdrant.Addr)
	assert.Equal(t, "curio_objects", cfg.Qdrant.Collection)
	assert.Equal(t, "all-minilm", cfg.AI.EmbeddingModel)
	assert.Equal(t, 384, cfg.AI.EmbeddingDimensions)
	assert.True(t, cfg.Loader.Incremental)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curio.toml")
	body := `
[server]
host = "127.0.0.1"
port = 9100

[qdrant]
addr = "qdrant.internal:6334"
collection = "paintings"

[ai]
embedding_model = "nomic-embed-text"
embedding_dimensions = 768

[loader]
incremental = false
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9100", cfg.HTTPAddr())
	assert.Equal(t, "qdrant.internal:6334", cfg.Qdrant.Addr)
	assert.Equal(t, "paintings", cfg.Qdrant.Collection)
	assert.Equal(t, "nomic-embed-text", cfg.AI.EmbeddingModel)
	assert.Equal(t, 768, cfg.AI.EmbeddingDimensions)
	assert.False(t, cfg.Loader.Incremental)
	// Untouched sections keep their defaults.
	assert.Equal(t, "qwen2.5:3b", cfg.AI.GeneratorModel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curio.toml")
	require.NoError(t, os.WriteFile(path, []byte("[qdrant]\naddr = \"from-file:6334\"\n"), 0o644))

	t.Setenv("CURIO_QDRANT_ADDR", "from-env:6334")
	t.Setenv("CURIO_SERVER_PORT", "9999")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env:6334", cfg.Qdrant.Addr)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestBadEnvIntFallsBack(t *testing.T) {
	t.Setenv("CURIO_SERVER_PORT", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curio.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nhost = "), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
