package session

import (
	"sync"

	"github.com/umbrellahq/onboard/internal/models"
)

// History is the append-only conversation log for one session. The session is
// the single writer; the engine only ever reads a snapshot for prompt
// assembly, so there is no aliasing of mutable conversation state.
type History struct {
	mu    sync.RWMutex
	turns []models.ConversationTurn
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds a turn to the log.
func (h *History) Append(turn models.ConversationTurn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, turn)
}

// Turns returns a copy of the log in order.
func (h *History) Turns() []models.ConversationTurn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]models.ConversationTurn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of recorded turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}
