// Package knowledge holds the built policy knowledge base: chunk vectors in
// an in-memory index, chunk payload in SQLite, persisted together under one
// directory keyed by embedding-model identity.
package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umbrellahq/onboard/internal/embedding"
	"github.com/umbrellahq/onboard/internal/models"
	"github.com/umbrellahq/onboard/internal/vector"
)

const (
	manifestFile = "manifest.yaml"
	vectorsFile  = "vectors.bin"
	chunksFile   = "chunks.db"
)

// manifest records what a persisted knowledge base was built with. Indexes
// built with different embedding models must never be mixed.
type manifest struct {
	ModelName  string    `yaml:"model_name"`
	Dimensions int       `yaml:"dimensions"`
	ChunkCount int       `yaml:"chunk_count"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// Base is a built knowledge base. After Build or Load it is immutable:
// read-many, write-never for the remainder of the process lifetime.
type Base struct {
	index     *vector.MemoryIndex
	chunks    []models.Chunk // insertion order
	byID      map[string]models.Chunk
	modelName string
}

// Build embeds all chunks with embedder and builds the vector index.
// Chunk order is preserved; every vector shares the embedder's dimension.
func Build(ctx context.Context, chunks []models.Chunk, embedder embedding.Embedder) (*Base, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("build knowledge base: no chunks")
	}
	texts := make([]string, len(chunks))
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
		ids[i] = c.ID
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	idx, err := vector.NewMemoryIndex(embedder.Dimensions())
	if err != nil {
		return nil, err
	}
	if err := idx.Add(ids, vectors); err != nil {
		return nil, fmt.Errorf("index chunks: %w", err)
	}

	return newBase(idx, chunks, embedder.ModelName()), nil
}

func newBase(idx *vector.MemoryIndex, chunks []models.Chunk, modelName string) *Base {
	byID := make(map[string]models.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}
	return &Base{index: idx, chunks: chunks, byID: byID, modelName: modelName}
}

// Save persists the knowledge base to dir: manifest, vectors, chunk payload.
func (b *Base) Save(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create knowledge dir: %w", err)
	}

	m := manifest{
		ModelName:  b.modelName,
		Dimensions: b.index.Dimensions(),
		ChunkCount: len(b.chunks),
		CreatedAt:  time.Now().UTC(),
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	if err := b.index.Save(filepath.Join(dir, vectorsFile)); err != nil {
		return fmt.Errorf("save vectors: %w", err)
	}

	store, err := openChunkStore(filepath.Join(dir, chunksFile))
	if err != nil {
		return fmt.Errorf("open chunk store: %w", err)
	}
	defer store.Close()
	if err := store.replaceChunks(ctx, b.chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}
	return nil
}

// Load reads a persisted knowledge base from dir. It returns ErrNotFound when
// no manifest exists there, and ErrCorrupt when the contents cannot be served:
// unreadable files, a chunk/vector count mismatch, or a knowledge base built
// with a different embedding model or dimension than embedder's.
func Load(ctx context.Context, dir string, embedder embedding.Embedder) (*Base, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("%w: read manifest: %v", ErrCorrupt, err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parse manifest: %v", ErrCorrupt, err)
	}
	if m.ModelName != embedder.ModelName() {
		return nil, fmt.Errorf("%w: built with model %q, embedder is %q", ErrCorrupt, m.ModelName, embedder.ModelName())
	}
	if m.Dimensions != embedder.Dimensions() {
		return nil, fmt.Errorf("%w: built with %d dimensions, embedder has %d", ErrCorrupt, m.Dimensions, embedder.Dimensions())
	}

	idx, err := vector.NewMemoryIndex(m.Dimensions)
	if err != nil {
		return nil, err
	}
	if err := idx.Load(filepath.Join(dir, vectorsFile)); err != nil {
		return nil, fmt.Errorf("%w: load vectors: %v", ErrCorrupt, err)
	}

	store, err := openChunkStore(filepath.Join(dir, chunksFile))
	if err != nil {
		return nil, fmt.Errorf("%w: open chunk store: %v", ErrCorrupt, err)
	}
	defer store.Close()
	chunks, err := store.loadChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load chunks: %v", ErrCorrupt, err)
	}

	if len(chunks) != m.ChunkCount || idx.Size() != m.ChunkCount {
		return nil, fmt.Errorf("%w: manifest says %d chunks, found %d chunks and %d vectors",
			ErrCorrupt, m.ChunkCount, len(chunks), idx.Size())
	}

	return newBase(idx, chunks, m.ModelName), nil
}

// Search returns up to k chunks ranked by similarity to queryVec, drawn from
// a candidate pool of fetchK. The pool is deduplicated by chunk text before
// the final top-K cut; ties keep insertion order.
func (b *Base) Search(ctx context.Context, queryVec []float32, k, fetchK int) ([]models.ScoredChunk, error) {
	if fetchK < k {
		fetchK = k
	}
	results, err := b.index.Search(queryVec, fetchK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	seen := make(map[string]bool, len(results))
	out := make([]models.ScoredChunk, 0, k)
	for _, r := range results {
		if len(out) >= k {
			break
		}
		chunk, ok := b.byID[r.ID]
		if !ok || seen[chunk.Text] {
			continue
		}
		seen[chunk.Text] = true
		out = append(out, models.ScoredChunk{Chunk: chunk, Score: r.Score})
	}
	return out, nil
}

// Chunks returns all chunks in insertion order.
func (b *Base) Chunks() []models.Chunk {
	return b.chunks
}

// Chunk returns the chunk with the given ID.
func (b *Base) Chunk(id string) (models.Chunk, bool) {
	c, ok := b.byID[id]
	return c, ok
}

// ModelName returns the embedding model identity the base was built with.
func (b *Base) ModelName() string {
	return b.modelName
}

// Size returns the number of indexed chunks.
func (b *Base) Size() int {
	return len(b.chunks)
}
