package ingest

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/umbrellahq/onboard/internal/models"
	"go.uber.org/zap"
)

// Ingestor extracts and chunks a policy document.
type Ingestor struct {
	extractor *Extractor
	splitter  *Splitter
	logger    *zap.Logger
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithLogger sets a logger for ingestion progress.
func WithLogger(l *zap.Logger) IngestorOption {
	return func(ing *Ingestor) { ing.logger = l }
}

// NewIngestor creates an ingestor with the given chunking parameters (in runes).
func NewIngestor(chunkSize, chunkOverlap int, opts ...IngestorOption) *Ingestor {
	ing := &Ingestor{
		extractor: NewExtractor(),
		splitter:  NewSplitter(chunkSize, chunkOverlap),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Ingest extracts page text from the document at path and splits it into
// chunks in document order. A missing or unparsable document is a hard
// failure; there are no retries. An extractable document with no text at all
// is also an error, since an empty index would silently answer nothing.
func (ing *Ingestor) Ingest(path string) ([]models.Chunk, error) {
	pages, err := ing.extractor.ExtractPages(path)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", path, err)
	}

	var chunks []models.Chunk
	for pageIdx, page := range pages {
		for _, sp := range ing.splitter.Split(page) {
			chunks = append(chunks, models.Chunk{
				ID:   uuid.New().String(),
				Text: sp.text,
				Metadata: models.ChunkMetadata{
					Page:   pageIdx + 1,
					Offset: sp.offset,
				},
			})
		}
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("ingest %s: document contains no extractable text", path)
	}

	ing.logger.Info("document ingested",
		zap.String("path", path),
		zap.Int("pages", len(pages)),
		zap.Int("chunks", len(chunks)),
	)
	return chunks, nil
}
