package embedding

import (
	"path/filepath"
	"testing"
)

func TestModelCacheFallback(t *testing.T) {
	c := NewModelCache(nil)
	defer c.Close()

	emb := c.Get(Settings{
		ModelName: "all-MiniLM-L6-v2",
		ModelPath: filepath.Join(t.TempDir(), "missing.onnx"),
		Dims:      384,
		MaxTokens: 256,
		CacheSize: 100,
	})
	if emb == nil {
		t.Fatal("Get returned nil")
	}
	// Without a loadable model the fallback embedder serves, flagged degraded.
	if !emb.Degraded() {
		t.Error("expected degraded fallback embedder")
	}
	if emb.Dimensions() != 384 {
		t.Errorf("Dimensions=%d", emb.Dimensions())
	}
	if emb.ModelName() != "all-MiniLM-L6-v2" {
		t.Errorf("ModelName=%s", emb.ModelName())
	}
}

func TestModelCacheReusesInstance(t *testing.T) {
	c := NewModelCache(nil)
	defer c.Close()

	s := Settings{ModelName: "m", ModelPath: "/nowhere.onnx", Dims: 64, MaxTokens: 64, CacheSize: 10}
	a := c.Get(s)
	b := c.Get(s)
	if a != b {
		t.Error("same model name must return the same instance")
	}
}

func TestModelCacheDistinctModels(t *testing.T) {
	c := NewModelCache(nil)
	defer c.Close()

	a := c.Get(Settings{ModelName: "a", ModelPath: "/nowhere.onnx", Dims: 64})
	b := c.Get(Settings{ModelName: "b", ModelPath: "/nowhere.onnx", Dims: 64})
	if a == b {
		t.Error("distinct model names must not share an instance")
	}
}

func TestModelCacheClose(t *testing.T) {
	c := NewModelCache(nil)
	c.Get(Settings{ModelName: "m", ModelPath: "/nowhere.onnx", Dims: 64})
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}
