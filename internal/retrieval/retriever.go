// Package retrieval answers queries against the knowledge base: embed the
// query, search by cosine similarity, return the top-K chunks.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/umbrellahq/onboard/internal/embedding"
	"github.com/umbrellahq/onboard/internal/keyword"
	"github.com/umbrellahq/onboard/internal/knowledge"
	"github.com/umbrellahq/onboard/internal/models"
)

// Retriever returns the chunks most relevant to a query. On the primary path
// that is vector similarity; when the embedder is degraded (hash fallback),
// vector scores are meaningless, so retrieval switches to a lexical index
// over the same chunks.
type Retriever struct {
	base     *knowledge.Base
	embedder embedding.Embedder
	lexical  *keyword.Index // non-nil only in degraded mode
	topK     int
	fetchK   int
	logger   *zap.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithLogger sets a logger for retrieval diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Retriever) { r.logger = l }
}

// NewRetriever creates a retriever over base. topK is the number of chunks
// returned per query, fetchK the candidate pool size (fetchK >= topK is
// enforced at the config boundary). When embedder reports Degraded, a Bleve
// index over the chunk texts is built as the lexical substitute.
func NewRetriever(base *knowledge.Base, embedder embedding.Embedder, topK, fetchK int, opts ...Option) (*Retriever, error) {
	r := &Retriever{
		base:     base,
		embedder: embedder,
		topK:     topK,
		fetchK:   fetchK,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if embedder.Degraded() {
		lex, err := keyword.NewMemoryIndex()
		if err != nil {
			return nil, fmt.Errorf("build lexical fallback index: %w", err)
		}
		if err := lex.IndexChunks(context.Background(), base.Chunks()); err != nil {
			_ = lex.Close()
			return nil, fmt.Errorf("index chunks for lexical fallback: %w", err)
		}
		r.lexical = lex
		r.logger.Warn("embedding provider degraded, retrieval will use lexical search",
			zap.String("model", embedder.ModelName()),
		)
	}
	return r, nil
}

// Retrieve returns up to topK chunks ranked by relevance to query.
func (r *Retriever) Retrieve(ctx context.Context, query string) (*models.RetrievalResult, error) {
	if r.lexical != nil {
		return r.retrieveLexical(ctx, query)
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	chunks, err := r.base.Search(ctx, queryVec, r.topK, r.fetchK)
	if err != nil {
		return nil, err
	}
	return &models.RetrievalResult{Query: query, Chunks: chunks}, nil
}

func (r *Retriever) retrieveLexical(ctx context.Context, query string) (*models.RetrievalResult, error) {
	hits, err := r.lexical.Search(ctx, query, r.topK)
	if err != nil {
		return nil, fmt.Errorf("lexical retrieval: %w", err)
	}
	out := make([]models.ScoredChunk, 0, len(hits))
	for _, h := range hits {
		if chunk, ok := r.base.Chunk(h.ID); ok {
			out = append(out, models.ScoredChunk{Chunk: chunk, Score: h.Score})
		}
	}
	return &models.RetrievalResult{Query: query, Chunks: out}, nil
}

// Degraded reports whether retrieval is running on the lexical fallback.
func (r *Retriever) Degraded() bool {
	return r.lexical != nil
}

// Close releases the lexical index, if any.
func (r *Retriever) Close() error {
	if r.lexical != nil {
		return r.lexical.Close()
	}
	return nil
}
