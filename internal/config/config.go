// internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds global configuration
type Config struct {
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Files     FilesConfig     `yaml:"files"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ChunkingConfig holds the size budgets for the chunking engine.
type ChunkingConfig struct {
	MaxTokens              int `yaml:"max_tokens"`
	MinTokens              int `yaml:"min_tokens"`
	OverlapLines           int `yaml:"overlap_lines"`
	OverlapToleranceTokens int `yaml:"overlap_tolerance_tokens"`
}

// FilesConfig controls which stylesheets the pipeline picks up.
type FilesConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "voyage"
	Model    string `yaml:"model"`    // "voyage-4-large"
}

type StorageConfig struct {
	QdrantURL string `yaml:"qdrant_url"`
	RedisURL  string `yaml:"redis_url"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // error|warn|info|debug
	MetricsPath string `yaml:"metrics_path"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			MaxTokens:              1500,
			MinTokens:              200,
			OverlapLines:           5,
			OverlapToleranceTokens: 50,
		},
		Files: FilesConfig{
			Include: []string{"**/*.xsl", "**/*.xslt"},
		},
		Embedding: EmbeddingConfig{
			Provider: "voyage",
			Model:    "voyage-4-large",
		},
		Storage: StorageConfig{
			QdrantURL: "http://localhost:6333",
			RedisURL:  "redis://localhost:6379",
		},
		Logging: LoggingConfig{
			Level:       "info",
			MetricsPath: "xsltchunk-metrics.jsonl",
		},
	}
}

// LoadConfig loads config from file or returns defaults
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
