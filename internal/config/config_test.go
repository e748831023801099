package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
document:
  path: ./policies.pdf
  chunk_size: 1000
  chunk_overlap: 100
retrieval:
  top_k: 2
  fetch_k: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Document.ChunkSize != 1000 {
		t.Errorf("ChunkSize=%d", cfg.Document.ChunkSize)
	}
	if !filepath.IsAbs(cfg.Document.Path) {
		t.Errorf("document path should be expanded, got %s", cfg.Document.Path)
	}
	// Defaults applied for everything unset.
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("Dimensions=%d", cfg.Embedding.Dimensions)
	}
	if cfg.LLM.Model != "llama-3.1-8b-instant" {
		t.Errorf("Model=%s", cfg.LLM.Model)
	}
	if cfg.LLM.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds=%d", cfg.LLM.TimeoutSeconds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		cfg.Document.Path = "/tmp/policies.pdf"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing document", func(c *Config) { c.Document.Path = "" }, "document.path"},
		{"overlap >= chunk size", func(c *Config) { c.Document.ChunkOverlap = c.Document.ChunkSize }, "chunk_overlap"},
		{"fetch_k < top_k", func(c *Config) { c.Retrieval.TopK = 10; c.Retrieval.FetchK = 5 }, "fetch_k"},
		{"zero top_k", func(c *Config) { c.Retrieval.TopK = -1 }, "top_k"},
		{"zero timeout", func(c *Config) { c.LLM.TimeoutSeconds = -5 }, "timeout"},
		{"bad temperature", func(c *Config) { c.LLM.Temperature = 3.5 }, "temperature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
