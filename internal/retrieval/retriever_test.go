package retrieval

import (
	"context"
	"testing"

	"github.com/umbrellahq/onboard/internal/embedding"
	"github.com/umbrellahq/onboard/internal/knowledge"
	"github.com/umbrellahq/onboard/internal/models"
)

// fixedEmbedder serves canned vectors and reports healthy, exercising the
// vector retrieval path without a real model.
type fixedEmbedder struct {
	vectors map[string][]float32
	dims    int
}

func (f *fixedEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return make([]float32, f.dims), nil
}

func (f *fixedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fixedEmbedder) Dimensions() int   { return f.dims }
func (f *fixedEmbedder) ModelName() string { return "fixed" }
func (f *fixedEmbedder) Degraded() bool    { return false }
func (f *fixedEmbedder) Close() error      { return nil }

func policyChunks() []models.Chunk {
	return []models.Chunk{
		{ID: "vac", Text: "Employees accrue twenty vacation days per year.", Metadata: models.ChunkMetadata{Page: 1}},
		{ID: "rem", Text: "Remote work is allowed three days per week.", Metadata: models.ChunkMetadata{Page: 2}},
		{ID: "sec", Text: "Security badges must be worn at all times.", Metadata: models.ChunkMetadata{Page: 3}},
	}
}

func TestRetrieveVectorPath(t *testing.T) {
	ctx := context.Background()
	chunks := policyChunks()
	emb := &fixedEmbedder{
		dims: 3,
		vectors: map[string][]float32{
			chunks[0].Text:               {1, 0, 0},
			chunks[1].Text:               {0, 1, 0},
			chunks[2].Text:               {0, 0, 1},
			"how much vacation do I get": {0.9, 0.1, 0},
		},
	}
	base, err := knowledge.Build(ctx, chunks, emb)
	if err != nil {
		t.Fatal(err)
	}

	r, err := NewRetriever(base, emb, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Degraded() {
		t.Fatal("healthy embedder should not trigger lexical fallback")
	}

	res, err := r.Retrieve(ctx, "how much vacation do I get")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Chunks) != 2 {
		t.Fatalf("got %d chunks", len(res.Chunks))
	}
	if res.Chunks[0].Chunk.ID != "vac" {
		t.Errorf("top chunk %s, want vac", res.Chunks[0].Chunk.ID)
	}
	if res.Query != "how much vacation do I get" {
		t.Errorf("query not carried through: %q", res.Query)
	}
}

func TestRetrieveLexicalFallback(t *testing.T) {
	ctx := context.Background()
	chunks := policyChunks()
	emb := embedding.NewHashEmbedder("m", 32)
	base, err := knowledge.Build(ctx, chunks, emb)
	if err != nil {
		t.Fatal(err)
	}

	r, err := NewRetriever(base, emb, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if !r.Degraded() {
		t.Fatal("degraded embedder should switch retrieval to lexical")
	}

	res, err := r.Retrieve(ctx, "vacation days")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Chunks) == 0 {
		t.Fatal("lexical retrieval returned nothing")
	}
	if res.Chunks[0].Chunk.ID != "vac" {
		t.Errorf("top chunk %s, want vac", res.Chunks[0].Chunk.ID)
	}
	if res.Chunks[0].Chunk.Metadata.Page != 1 {
		t.Errorf("chunk payload not resolved from the base")
	}
}

func TestRetrieveTopKLimit(t *testing.T) {
	ctx := context.Background()
	chunks := policyChunks()
	emb := embedding.NewHashEmbedder("m", 32)
	base, err := knowledge.Build(ctx, chunks, emb)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewRetriever(base, emb, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	res, err := r.Retrieve(ctx, "days per week")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Chunks) > 1 {
		t.Errorf("top_k=1 but got %d chunks", len(res.Chunks))
	}
}
