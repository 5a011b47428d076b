// Package config loads service configuration from a TOML file with
// environment variable overrides. Every field has a usable default so
// the binaries run against a local stack with no config file at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server ServerConfig `toml:"server"`
	Qdrant QdrantConfig `toml:"qdrant"`
	AI     AIConfig     `toml:"ai"`
	Loader LoaderConfig `toml:"loader"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type QdrantConfig struct {
	Addr            string `toml:"addr"`
	Collection      string `toml:"collection"`
	HnswM           uint64 `toml:"hnsw_m"`
	HnswEfConstruct uint64 `toml:"hnsw_ef_construct"`
}

type AIConfig struct {
	EmbeddingHost       string  `toml:"embedding_host"`
	GeneratorHost       string  `toml:"generator_host"`
	EmbeddingModel      string  `toml:"embedding_model"`
	GeneratorModel      string  `toml:"generator_model"`
	EmbeddingDimensions int     `toml:"embedding_dimensions"`
	MaxTokens           int     `toml:"max_tokens"`
	Temperature         float64 `toml:"temperature"`
}

type LoaderConfig struct {
	StatePath      string `toml:"state_path"`
	PoolSize       int    `toml:"pool_size"`
	EmbedBatchSize int    `toml:"embed_batch_size"`
	Incremental    bool   `toml:"incremental"`
}

// Load reads the TOML file at path when it exists, then applies CURIO_*
// environment overrides on top. An empty path falls back to CURIO_CONFIG
// and then to curio.toml in the working directory.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = getEnv("CURIO_CONFIG", "curio.toml")
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

// HTTPAddr is the listen address for the query service.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Qdrant: QdrantConfig{
			Addr:            "localhost:6334",
			Collection:      "curio_objects",
			HnswM:           16,
			HnswEfConstruct: 100,
		},
		AI: AIConfig{
			EmbeddingHost:       "http://localhost:11434",
			GeneratorHost:       "http://localhost:11434",
			EmbeddingModel:      "all-minilm",
			GeneratorModel:      "qwen2.5:3b",
			EmbeddingDimensions: 384,
			MaxTokens:           512,
			Temperature:         0.7,
		},
		Loader: LoaderConfig{
			StatePath:      "data/curio-state",
			PoolSize:       0, // pipeline picks a size from the CPU count
			EmbedBatchSize: 64,
			Incremental:    true,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.Server.Host = getEnv("CURIO_SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsInt("CURIO_SERVER_PORT", cfg.Server.Port)

	cfg.Qdrant.Addr = getEnv("CURIO_QDRANT_ADDR", cfg.Qdrant.Addr)
	cfg.Qdrant.Collection = getEnv("CURIO_QDRANT_COLLECTION", cfg.Qdrant.Collection)

	cfg.AI.EmbeddingHost = getEnv("CURIO_EMBEDDING_HOST", cfg.AI.EmbeddingHost)
	cfg.AI.GeneratorHost = getEnv("CURIO_GENERATOR_HOST", cfg.AI.GeneratorHost)
	cfg.AI.EmbeddingModel = getEnv("CURIO_EMBEDDING_MODEL", cfg.AI.EmbeddingModel)
	cfg.AI.GeneratorModel = getEnv("CURIO_GENERATOR_MODEL", cfg.AI.GeneratorModel)
	cfg.AI.EmbeddingDimensions = getEnvAsInt("CURIO_EMBEDDING_DIMENSIONS", cfg.AI.EmbeddingDimensions)
	cfg.AI.MaxTokens = getEnvAsInt("CURIO_MAX_TOKENS", cfg.AI.MaxTokens)

	cfg.Loader.StatePath = getEnv("CURIO_STATE_PATH", cfg.Loader.StatePath)
	cfg.Loader.PoolSize = getEnvAsInt("CURIO_POOL_SIZE", cfg.Loader.PoolSize)
	cfg.Loader.EmbedBatchSize = getEnvAsInt("CURIO_EMBED_BATCH_SIZE", cfg.Loader.EmbedBatchSize)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
