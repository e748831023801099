package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/umbrellahq/onboard/internal/assistant"
	"github.com/umbrellahq/onboard/internal/config"
	"github.com/umbrellahq/onboard/internal/embedding"
	"github.com/umbrellahq/onboard/internal/employee"
	"github.com/umbrellahq/onboard/internal/ingest"
	"github.com/umbrellahq/onboard/internal/knowledge"
	"github.com/umbrellahq/onboard/internal/llm"
	"github.com/umbrellahq/onboard/internal/retrieval"
)

// Manager wires the shared pipeline (embedder, knowledge base, retriever,
// engine) and creates isolated sessions on top of it. The knowledge base and
// embedder are built or loaded once and treated as immutable, read-many for
// the rest of the process lifetime.
type Manager struct {
	cfg        *config.Config
	modelCache *embedding.ModelCache
	streamer   llm.Streamer
	generator  *employee.Generator
	logger     *zap.Logger

	// group collapses concurrent knowledge-base opens for the same
	// (document, model) key into a single build.
	group singleflight.Group

	mu       sync.RWMutex
	base     *knowledge.Base
	engine   *assistant.Engine
	sessions map[string]*Session
}

// NewManager creates a manager. streamer is the language-model client;
// modelCache owns the loaded embedding models.
func NewManager(cfg *config.Config, modelCache *embedding.ModelCache, streamer llm.Streamer, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:        cfg,
		modelCache: modelCache,
		streamer:   streamer,
		generator:  employee.NewGenerator(),
		logger:     logger,
		sessions:   make(map[string]*Session),
	}
}

// Open readies the shared pipeline: load the persisted knowledge base if one
// exists, otherwise ingest the policy document, build, and save. Concurrent
// callers that all miss the cache share one build via single flight, keyed by
// (document path, embedding model), so racing builders cannot overwrite each
// other's output. Calling Open again after success is a no-op.
func (m *Manager) Open(ctx context.Context) error {
	m.mu.RLock()
	ready := m.engine != nil
	m.mu.RUnlock()
	if ready {
		return nil
	}

	embedder := m.modelCache.Get(embedding.Settings{
		ModelName: m.cfg.Embedding.ModelName,
		ModelPath: m.cfg.Embedding.ModelPath,
		Dims:      m.cfg.Embedding.Dimensions,
		MaxTokens: m.cfg.Embedding.MaxTokens,
		CacheSize: m.cfg.Embedding.CacheSize,
	})

	key := m.cfg.Document.Path + "|" + embedder.ModelName()
	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		return m.openBase(ctx, embedder)
	})
	if err != nil {
		return err
	}
	base := v.(*knowledge.Base)

	retriever, err := retrieval.NewRetriever(base, embedder,
		m.cfg.Retrieval.TopK, m.cfg.Retrieval.FetchK,
		retrieval.WithLogger(m.logger),
	)
	if err != nil {
		return fmt.Errorf("create retriever: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.engine == nil {
		m.base = base
		m.engine = assistant.NewEngine(retriever, m.streamer, assistant.WithLogger(m.logger))
	}
	return nil
}

// openBase implements the rebuild-vs-reuse decision: a valid persisted index
// skips ingestion and embedding entirely. NotFound rebuilds quietly;
// any other load failure also rebuilds but at error severity — a bad index
// is never partially served.
func (m *Manager) openBase(ctx context.Context, embedder embedding.Embedder) (*knowledge.Base, error) {
	dir := m.cfg.Index.Path
	base, err := knowledge.Load(ctx, dir, embedder)
	if err == nil {
		m.logger.Info("knowledge base loaded from cache",
			zap.String("path", dir),
			zap.Int("chunks", base.Size()),
		)
		return base, nil
	}
	switch {
	case errors.Is(err, knowledge.ErrNotFound):
		m.logger.Info("no cached knowledge base, building from source", zap.String("path", dir))
	default:
		m.logger.Error("cached knowledge base unusable, rebuilding from source",
			zap.String("path", dir),
			zap.Error(err),
		)
	}
	return m.rebuild(ctx, embedder)
}

// Rebuild forces a fresh ingest-embed-index pass and persists the result,
// replacing any cached knowledge base. Used by the document watcher.
func (m *Manager) Rebuild(ctx context.Context) error {
	embedder := m.modelCache.Get(embedding.Settings{
		ModelName: m.cfg.Embedding.ModelName,
		ModelPath: m.cfg.Embedding.ModelPath,
		Dims:      m.cfg.Embedding.Dimensions,
		MaxTokens: m.cfg.Embedding.MaxTokens,
		CacheSize: m.cfg.Embedding.CacheSize,
	})
	key := m.cfg.Document.Path + "|" + embedder.ModelName()
	v, err, _ := m.group.Do(key+"|rebuild", func() (interface{}, error) {
		return m.rebuild(ctx, embedder)
	})
	if err != nil {
		return err
	}
	base := v.(*knowledge.Base)

	retriever, err := retrieval.NewRetriever(base, embedder,
		m.cfg.Retrieval.TopK, m.cfg.Retrieval.FetchK,
		retrieval.WithLogger(m.logger),
	)
	if err != nil {
		return fmt.Errorf("create retriever: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.base = base
	m.engine = assistant.NewEngine(retriever, m.streamer, assistant.WithLogger(m.logger))
	return nil
}

func (m *Manager) rebuild(ctx context.Context, embedder embedding.Embedder) (*knowledge.Base, error) {
	ingestor := ingest.NewIngestor(
		m.cfg.Document.ChunkSize,
		m.cfg.Document.ChunkOverlap,
		ingest.WithLogger(m.logger),
	)
	chunks, err := ingestor.Ingest(m.cfg.Document.Path)
	if err != nil {
		return nil, err
	}
	base, err := knowledge.Build(ctx, chunks, embedder)
	if err != nil {
		return nil, err
	}
	if err := base.Save(ctx, m.cfg.Index.Path); err != nil {
		return nil, fmt.Errorf("persist knowledge base: %w", err)
	}
	m.logger.Info("knowledge base built",
		zap.String("document", m.cfg.Document.Path),
		zap.Int("chunks", base.Size()),
		zap.String("model", embedder.ModelName()),
	)
	return base, nil
}

// CreateSession generates a fresh employee profile and returns a new
// isolated session. Open must have succeeded first.
func (m *Manager) CreateSession() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.engine == nil {
		return nil, errors.New("session manager not opened")
	}
	s := NewSession(m.engine, m.generator.Generate())
	m.sessions[s.ID] = s
	return s, nil
}

// Session returns the session with the given ID.
func (m *Manager) Session(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// CloseSession discards a session and its state.
func (m *Manager) CloseSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Base returns the shared knowledge base (nil before Open).
func (m *Manager) Base() *knowledge.Base {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.base
}
