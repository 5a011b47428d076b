package curio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmuse/curio/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	cfg.Loader.StatePath = filepath.Join(t.TempDir(), "state")
	return cfg
}

func TestNewQueryService(t *testing.T) {
	service, err := NewQueryService(testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, service)
	defer service.Close()

	assert.NotNil(t, service.Searcher())
	assert.NotNil(t, service.Answerer())
}

func TestNewLoader(t *testing.T) {
	t.Run("create new loader", func(t *testing.T) {
		loader, err := NewLoader(testConfig(t))
		require.NoError(t, err)
		require.NotNil(t, loader)
		defer loader.Close()

		assert.NotNil(t, loader.backend)
		assert.NotNil(t, loader.hashes)
		assert.NotNil(t, loader.commits)
	})

	t.Run("error with invalid state path", func(t *testing.T) {
		cfg := testConfig(t)
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0o644))
		cfg.Loader.StatePath = tmpFile

		loader, err := NewLoader(cfg)
		assert.Error(t, err)
		assert.Nil(t, loader)
	})
}

func TestLoader_Close(t *testing.T) {
	loader, err := NewLoader(testConfig(t))
	require.NoError(t, err)

	assert.NoError(t, loader.Close())
}
