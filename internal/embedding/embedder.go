// Package embedding provides text embedding via ONNX with a deterministic
// hash-based fallback, plus a process-wide model cache.
package embedding

import "context"

// Embedder produces L2-normalized vector embeddings for text. Embedding the
// same text with the same model always yields the same vector, which is what
// makes the persisted index reusable across runs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	// ModelName is the logical model identity; it keys the persisted index.
	ModelName() string
	// Degraded reports whether this embedder is the hash fallback. Fallback
	// vectors are deterministic but semantically meaningless, so callers
	// should not trust similarity ranking when this returns true.
	Degraded() bool
	Close() error
}
