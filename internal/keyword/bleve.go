// Package keyword provides a Bleve lexical index over policy chunks. It backs
// retrieval when the embedding provider is running in its degraded hash
// fallback, where vector similarity carries no semantic signal.
package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/umbrellahq/onboard/internal/models"
)

// Result is a single lexical search hit.
type Result struct {
	ID    string
	Score float64
}

// Index is a lexical chunk index backed by Bleve.
type Index struct {
	index bleve.Index
}

// chunkDoc is the shape Bleve indexes for each chunk.
type chunkDoc struct {
	Text string `json:"text"`
}

func chunkMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so policy terms
	// match exactly as typed.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	im.DefaultMapping = docMapping
	return im
}

// NewMemoryIndex creates an in-memory lexical index. The chunk set is small
// and rebuilt alongside the vector index, so nothing needs to persist.
func NewMemoryIndex() (*Index, error) {
	index, err := bleve.NewMemOnly(chunkMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &Index{index: index}, nil
}

// NewIndex creates or opens a persistent lexical index at path.
func NewIndex(path string) (*Index, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &Index{index: index}, nil
	}
	index, err := bleve.New(path, chunkMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &Index{index: index}, nil
}

// IndexChunks indexes the given chunks by ID.
func (b *Index) IndexChunks(ctx context.Context, chunks []models.Chunk) error {
	batch := b.index.NewBatch()
	for _, c := range chunks {
		if err := batch.Index(c.ID, chunkDoc{Text: c.Text}); err != nil {
			return fmt.Errorf("batch index chunk %s: %w", c.ID, err)
		}
	}
	return b.index.Batch(batch)
}

// Search runs a match query over chunk text and returns up to limit hits.
func (b *Index) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	mq := bleve.NewMatchQuery(query)
	mq.SetField("text")
	req := bleve.NewSearchRequestOptions(mq, limit, 0, false)
	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	out := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		out = append(out, Result{ID: hit.ID, Score: hit.Score})
	}
	return out, nil
}

// Close releases the underlying index.
func (b *Index) Close() error {
	return b.index.Close()
}
