package embedding

import (
	"context"
	"crypto/sha256"

	"github.com/umbrellahq/onboard/pkg/utils"
)

// HashEmbedder derives a deterministic pseudo-embedding from a SHA-256 digest
// of the text, tiled to the target dimension and L2-normalized. It keeps the
// pipeline alive when the real model cannot be loaded, at the cost of
// semantically meaningless similarity; Degraded reports true so callers can
// compensate (retrieval falls back to lexical search).
type HashEmbedder struct {
	modelName string
	dims      int
}

// NewHashEmbedder returns a fallback embedder of the given dimension.
// modelName is the identity of the model it stands in for.
func NewHashEmbedder(modelName string, dims int) *HashEmbedder {
	if dims <= 0 {
		dims = 384
	}
	return &HashEmbedder{modelName: modelName, dims: dims}
}

// Embed returns a deterministic vector: same text, same bytes, every time.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))
	emb := make([]float32, e.dims)
	for i := range emb {
		emb[i] = float32(digest[i%len(digest)]) / 255.0
	}
	utils.NormalizeL2(emb)
	return emb, nil
}

// EmbedBatch calls Embed for each text.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dims
}

// ModelName returns the identity of the model this fallback stands in for.
func (e *HashEmbedder) ModelName() string {
	return e.modelName
}

// Degraded reports true: hash similarity carries no semantic signal.
func (e *HashEmbedder) Degraded() bool {
	return true
}

// Close is a no-op for HashEmbedder.
func (e *HashEmbedder) Close() error {
	return nil
}
