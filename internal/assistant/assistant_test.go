package assistant

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/umbrellahq/onboard/internal/embedding"
	"github.com/umbrellahq/onboard/internal/employee"
	"github.com/umbrellahq/onboard/internal/ingest"
	"github.com/umbrellahq/onboard/internal/knowledge"
	"github.com/umbrellahq/onboard/internal/llm"
	"github.com/umbrellahq/onboard/internal/models"
	"github.com/umbrellahq/onboard/internal/retrieval"
)

// captureStreamer records the messages it receives and replies with a fixed
// answer, one fragment per element.
type captureStreamer struct {
	messages  []llm.Message
	fragments []string
}

func (s *captureStreamer) StreamChat(_ context.Context, messages []llm.Message) (<-chan llm.Fragment, error) {
	s.messages = messages
	ch := make(chan llm.Fragment, len(s.fragments))
	for _, f := range s.fragments {
		ch <- llm.Fragment{Content: f}
	}
	close(ch)
	return ch, nil
}

func newTestEngine(t *testing.T, streamer llm.Streamer) *Engine {
	t.Helper()
	emb := embedding.NewHashEmbedder("m", 32)
	chunks := []models.Chunk{
		{ID: "vac", Text: "Employees accrue twenty vacation days per year.", Metadata: models.ChunkMetadata{Page: 4}},
		{ID: "rem", Text: "Remote work is allowed three days per week.", Metadata: models.ChunkMetadata{Page: 7}},
	}
	base, err := knowledge.Build(context.Background(), chunks, emb)
	if err != nil {
		t.Fatal(err)
	}
	r, err := retrieval.NewRetriever(base, emb, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return NewEngine(r, streamer)
}

func TestRespondGroundsPrompt(t *testing.T) {
	streamer := &captureStreamer{fragments: []string{"You get ", "twenty days."}}
	engine := newTestEngine(t, streamer)

	profile := employee.NewGeneratorWithSeed(42).Generate()
	ch, err := engine.Respond(context.Background(), "how many vacation days do I have", nil, profile)
	if err != nil {
		t.Fatal(err)
	}
	var answer strings.Builder
	for f := range ch {
		if f.Err != nil {
			t.Fatal(f.Err)
		}
		answer.WriteString(f.Content)
	}
	if answer.String() != "You get twenty days." {
		t.Errorf("answer %q", answer.String())
	}

	if len(streamer.messages) != 2 {
		t.Fatalf("got %d messages, want system + user", len(streamer.messages))
	}
	system := streamer.messages[0]
	if system.Role != "system" {
		t.Errorf("first message role %q", system.Role)
	}
	// The system prompt carries the employee identity and the retrieved
	// policy text with its page citation.
	if !strings.Contains(system.Content, profile.Name) {
		t.Error("system prompt missing employee name")
	}
	if !strings.Contains(system.Content, "vacation days per year") {
		t.Error("system prompt missing retrieved policy text")
	}
	if !strings.Contains(system.Content, "[page 4]") {
		t.Error("system prompt missing page citation")
	}
	if streamer.messages[1].Role != "user" || streamer.messages[1].Content != "how many vacation days do I have" {
		t.Errorf("last message %+v", streamer.messages[1])
	}
}

func TestRespondCarriesHistory(t *testing.T) {
	streamer := &captureStreamer{fragments: []string{"ok"}}
	engine := newTestEngine(t, streamer)

	history := []models.ConversationTurn{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "Hey there!"},
	}
	profile := employee.NewGeneratorWithSeed(1).Generate()
	ch, err := engine.Respond(context.Background(), "remote work rules?", history, profile)
	if err != nil {
		t.Fatal(err)
	}
	for range ch {
	}

	if len(streamer.messages) != 4 {
		t.Fatalf("got %d messages, want system + 2 history + user", len(streamer.messages))
	}
	if streamer.messages[1].Content != "hello" || streamer.messages[1].Role != "user" {
		t.Errorf("history user turn misplaced: %+v", streamer.messages[1])
	}
	if streamer.messages[2].Content != "Hey there!" || streamer.messages[2].Role != "assistant" {
		t.Errorf("history assistant turn misplaced: %+v", streamer.messages[2])
	}
}

// Full pipeline: a three-page document is ingested, indexed, and the prompt
// for a topical question carries both the employee identity and the relevant
// policy passage.
func TestRespondEndToEnd(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "handbook.txt")
	content := "Welcome to Umbrella Corporation. This handbook covers your first weeks.\f" +
		"Vacation policy. Full-time employees accrue twenty days of paid vacation per year.\f" +
		"Security policy. Access badges must be worn visibly in all facilities."
	if err := os.WriteFile(docPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	ing := ingest.NewIngestor(1000, 100)
	chunks, err := ing.Ingest(docPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 3 {
		t.Fatalf("expected chunks from all three pages, got %d", len(chunks))
	}

	emb := embedding.NewHashEmbedder("m", 32)
	base, err := knowledge.Build(context.Background(), chunks, emb)
	if err != nil {
		t.Fatal(err)
	}
	r, err := retrieval.NewRetriever(base, emb, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	streamer := &captureStreamer{fragments: []string{"Twenty days."}}
	engine := NewEngine(r, streamer)
	profile := employee.NewGeneratorWithSeed(42).Generate()

	ch, err := engine.Respond(context.Background(), "how many vacation days do I accrue", nil, profile)
	if err != nil {
		t.Fatal(err)
	}
	for range ch {
	}

	system := streamer.messages[0].Content
	if !strings.Contains(system, profile.Name) {
		t.Error("prompt missing employee name")
	}
	if !strings.Contains(system, "twenty days of paid vacation") {
		t.Error("prompt missing the vacation passage")
	}
}

func TestRenderSystemPromptNoPassages(t *testing.T) {
	profile := employee.NewGeneratorWithSeed(42).Generate()
	prompt := renderSystemPrompt(profile, nil)
	if !strings.Contains(prompt, "no matching policy passages") {
		t.Error("empty retrieval should be stated, not silently blank")
	}
	if !strings.Contains(prompt, "Umbrella Corporation") {
		t.Error("prompt missing scope statement")
	}
}
