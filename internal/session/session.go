// Package session owns per-user conversation state and the build-or-load
// lifecycle of the shared knowledge base.
package session

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/umbrellahq/onboard/internal/assistant"
	"github.com/umbrellahq/onboard/internal/llm"
	"github.com/umbrellahq/onboard/internal/models"
)

// ErrBusy reports that a respond call was made while a prior stream for the
// same session was still open. Turns are strictly one at a time per session.
var ErrBusy = errors.New("session: a response stream is already in flight")

// Session holds one user's conversation: a profile generated at session
// start and an append-only history. Sessions are discarded at session end;
// nothing is persisted per user.
type Session struct {
	ID      string
	Profile models.EmployeeProfile

	engine   *assistant.Engine
	history  *History
	inFlight atomic.Bool
}

// NewSession creates a session with the given profile.
func NewSession(engine *assistant.Engine, profile models.EmployeeProfile) *Session {
	return &Session{
		ID:      uuid.New().String(),
		Profile: profile,
		engine:  engine,
		history: NewHistory(),
	}
}

// History returns a snapshot of the conversation so far.
func (s *Session) History() []models.ConversationTurn {
	return s.history.Turns()
}

// Respond streams the assistant's answer to userInput. After the stream
// completes cleanly, the session records the {user, assistant} turn pair; on
// a mid-stream failure nothing is appended — fragments already delivered to
// the consumer stay delivered, but the turn never enters history. Only one
// respond stream may be open per session at a time.
func (s *Session) Respond(ctx context.Context, userInput string) (<-chan llm.Fragment, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	stream, err := s.engine.Respond(ctx, userInput, s.history.Turns(), s.Profile)
	if err != nil {
		s.inFlight.Store(false)
		return nil, err
	}

	out := make(chan llm.Fragment)
	go s.relay(userInput, stream, out)
	return out, nil
}

// relay forwards fragments to the consumer, accumulating the answer so the
// completed turn pair can be appended once the stream closes cleanly.
func (s *Session) relay(userInput string, in <-chan llm.Fragment, out chan<- llm.Fragment) {
	defer close(out)
	defer s.inFlight.Store(false)

	var answer strings.Builder
	failed := false
	for frag := range in {
		if frag.Err != nil {
			failed = true
		} else {
			answer.WriteString(frag.Content)
		}
		out <- frag
	}
	if failed {
		return
	}
	s.history.Append(models.ConversationTurn{Role: models.RoleUser, Content: userInput})
	s.history.Append(models.ConversationTurn{Role: models.RoleAssistant, Content: answer.String()})
}
