// Package assistant is the conversation engine: it grounds each user turn in
// retrieved policy passages and streams the model's answer.
package assistant

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/umbrellahq/onboard/internal/llm"
	"github.com/umbrellahq/onboard/internal/models"
	"github.com/umbrellahq/onboard/internal/retrieval"
)

// Engine assembles grounded prompts and streams answers. It never mutates
// the conversation history: recording completed turns is the session layer's
// job, so there is exactly one writer for conversation state.
type Engine struct {
	retriever *retrieval.Retriever
	streamer  llm.Streamer
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a logger for engine diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a conversation engine.
func NewEngine(retriever *retrieval.Retriever, streamer llm.Streamer, opts ...Option) *Engine {
	e := &Engine{
		retriever: retriever,
		streamer:  streamer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Respond retrieves the policy passages most relevant to userInput, renders a
// single prompt (system instructions, employee profile, retrieved passages,
// prior history, user turn), and streams the model's answer. The returned
// stream is finite and not restartable; fragments already delivered stay
// delivered if it fails mid-way. Any error from embedding, search, or the
// model call propagates to the caller unmodified — no retries.
func (e *Engine) Respond(
	ctx context.Context,
	userInput string,
	history []models.ConversationTurn,
	profile models.EmployeeProfile,
) (<-chan llm.Fragment, error) {
	result, err := e.retriever.Retrieve(ctx, userInput)
	if err != nil {
		return nil, fmt.Errorf("retrieve policy passages: %w", err)
	}
	e.logger.Debug("passages retrieved",
		zap.Int("count", len(result.Chunks)),
		zap.String("query", userInput),
	)

	messages := buildMessages(userInput, history, profile, result.Chunks)
	return e.streamer.StreamChat(ctx, messages)
}

// buildMessages renders the full prompt: system instructions first, then the
// role-tagged history, then the current user turn.
func buildMessages(
	userInput string,
	history []models.ConversationTurn,
	profile models.EmployeeProfile,
	retrieved []models.ScoredChunk,
) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    string(models.RoleSystem),
		Content: renderSystemPrompt(profile, retrieved),
	})
	for _, turn := range history {
		messages = append(messages, llm.Message{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	messages = append(messages, llm.Message{
		Role:    string(models.RoleUser),
		Content: userInput,
	})
	return messages
}
