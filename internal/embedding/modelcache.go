package embedding

import (
	"sync"

	"go.uber.org/zap"
)

// Settings describes how to load one embedding model.
type Settings struct {
	ModelName string
	ModelPath string
	Dims      int
	MaxTokens int
	CacheSize int
}

// ModelCache owns loaded embedding models, one per distinct model name.
// Loading a sentence-embedding model is expensive, so the first Get for a
// name pays the load cost and every later Get shares the same read-only
// instance. A model-load failure is downgraded to the deterministic hash
// fallback (logged as a warning), never an error: the pipeline must not
// hard-fail purely because the model file is missing.
type ModelCache struct {
	logger *zap.Logger
	mu     sync.Mutex
	models map[string]Embedder
}

// NewModelCache creates an empty model cache. logger may be nil.
func NewModelCache(logger *zap.Logger) *ModelCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelCache{
		logger: logger,
		models: make(map[string]Embedder),
	}
}

// Get returns the embedder for s.ModelName, loading it on first use.
func (c *ModelCache) Get(s Settings) Embedder {
	c.mu.Lock()
	defer c.mu.Unlock()

	if emb, ok := c.models[s.ModelName]; ok {
		return emb
	}

	emb := c.load(s)
	c.models[s.ModelName] = emb
	return emb
}

func (c *ModelCache) load(s Settings) Embedder {
	onnx, err := NewONNXEmbedder(s.ModelName, s.ModelPath, s.Dims, s.MaxTokens, s.CacheSize)
	if err != nil {
		c.logger.Warn("embedding model unavailable, using deterministic hash fallback",
			zap.String("model", s.ModelName),
			zap.String("model_path", s.ModelPath),
			zap.Error(err),
		)
		return NewHashEmbedder(s.ModelName, s.Dims)
	}
	c.logger.Info("embedding model loaded",
		zap.String("model", s.ModelName),
		zap.Int("dimensions", s.Dims),
	)
	return onnx
}

// Close releases every loaded model.
func (c *ModelCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for name, emb := range c.models {
		if err := emb.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.models, name)
	}
	return firstErr
}
