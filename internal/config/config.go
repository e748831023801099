// Package config provides configuration loading and validation for the OnBoard assistant.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Document  DocumentConfig  `yaml:"document"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	LLM       LLMConfig       `yaml:"llm"`
	Server    ServerConfig    `yaml:"server"`
}

// DocumentConfig holds policy document ingestion settings.
type DocumentConfig struct {
	Path         string `yaml:"path"`
	ChunkSize    int    `yaml:"chunk_size"`    // target chunk size in runes
	ChunkOverlap int    `yaml:"chunk_overlap"` // overlap between consecutive chunks in runes
	Watch        bool   `yaml:"watch"`         // rebuild the index when the document changes
}

// EmbeddingConfig holds embedding model settings.
type EmbeddingConfig struct {
	ModelName  string `yaml:"model_name"` // logical model identity, keys the persisted index
	ModelPath  string `yaml:"model_path"` // ONNX model file; when unavailable the hash fallback is used
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// IndexConfig holds persisted index settings.
type IndexConfig struct {
	Path string `yaml:"path"` // directory holding manifest, vectors, and chunk payload
}

// RetrievalConfig holds similarity search settings.
type RetrievalConfig struct {
	TopK   int `yaml:"top_k"`
	FetchK int `yaml:"fetch_k"` // candidate pool size before final top-K selection
}

// LLMConfig holds language-model call settings. Generation parameters are
// fixed per process, not re-negotiated per call.
type LLMConfig struct {
	APIBase        string  `yaml:"api_base"`
	APIKey         string  `yaml:"api_key"` // usually left empty and taken from GROQ_API_KEY
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Load reads and parses the config file at path, applies defaults, expands
// paths relative to the config directory, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Document.Path = expandPath(cfg.Document.Path, configDir)
	cfg.Index.Path = expandPath(cfg.Index.Path, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("GROQ_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks boundary invariants. It fails fast before any pipeline work
// starts so that misconfiguration never produces a partially built index.
func (c *Config) Validate() error {
	if c.Document.Path == "" {
		return fmt.Errorf("config: document.path is required")
	}
	if c.Document.ChunkSize <= 0 {
		return fmt.Errorf("config: document.chunk_size must be positive, got %d", c.Document.ChunkSize)
	}
	if c.Document.ChunkOverlap < 0 || c.Document.ChunkOverlap >= c.Document.ChunkSize {
		return fmt.Errorf("config: document.chunk_overlap must be in [0, chunk_size), got %d", c.Document.ChunkOverlap)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("config: embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("config: retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.FetchK < c.Retrieval.TopK {
		return fmt.Errorf("config: retrieval.fetch_k (%d) must be >= top_k (%d)", c.Retrieval.FetchK, c.Retrieval.TopK)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: llm.timeout_seconds must be positive, got %d", c.LLM.TimeoutSeconds)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("config: llm.max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("config: llm.temperature must be in [0, 2], got %g", c.LLM.Temperature)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
