package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"katalian_bank/internal/repository/memory"
)

// scriptedModel records the messages it receives and returns a fixed answer.
type scriptedModel struct {
	answer   string
	err      error
	received []Message
}

func (m *scriptedModel) Chat(_ context.Context, messages []Message) (string, error) {
	m.received = messages
	return m.answer, m.err
}

func newTestRepo(t *testing.T) *memory.UserRepository {
	t.Helper()
	repo := memory.NewUserRepository()
	if err := memory.Seed(context.Background(), repo); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	return repo
}

func TestAskBuildsDatabaseGroundedPrompt(t *testing.T) {
	model := &scriptedModel{answer: "The total balance is $109,802.21."}
	svc := NewService(model, newTestRepo(t), nil)

	answer, err := svc.Ask(context.Background(), "What is the total balance across all users?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != model.answer {
		t.Errorf("expected model answer passed through, got %q", answer)
	}

	if len(model.received) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(model.received))
	}
	system := model.received[0]
	if system.Role != RoleSystem {
		t.Errorf("expected first message role system, got %s", system.Role)
	}
	if !strings.Contains(system.Content, "Katalian Bank") {
		t.Error("expected bank identity in the system prompt")
	}
	if !strings.Contains(system.Content, "user1") || !strings.Contains(system.Content, "user4") {
		t.Error("expected the seeded user database serialized into the prompt")
	}
	if model.received[1].Role != RoleUser || model.received[1].Content == "" {
		t.Error("expected the query as the user message")
	}
}

func TestAskRejectsEmptyQuery(t *testing.T) {
	svc := NewService(&scriptedModel{}, newTestRepo(t), nil)

	if _, err := svc.Ask(context.Background(), "   "); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestAskPropagatesModelError(t *testing.T) {
	model := &scriptedModel{err: errors.New("quota exceeded")}
	svc := NewService(model, newTestRepo(t), nil)

	_, err := svc.Ask(context.Background(), "anything")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected wrapped model error, got %v", err)
	}
}

func TestAskFallsBackOnEmptyAnswer(t *testing.T) {
	svc := NewService(&scriptedModel{answer: ""}, newTestRepo(t), nil)

	answer, err := svc.Ask(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(answer, "couldn't process") {
		t.Errorf("expected fallback answer, got %q", answer)
	}
}

func TestSimulatedModelIsDeterministic(t *testing.T) {
	model := NewSimulatedModel()
	messages := []Message{
		{Role: RoleSystem, Content: "context"},
		{Role: RoleUser, Content: "list my accounts"},
	}

	first, err := model.Chat(context.Background(), messages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := model.Chat(context.Background(), messages)
	if first != second {
		t.Error("expected identical answers for identical input")
	}
	if !strings.Contains(first, "list my accounts") {
		t.Errorf("expected the query echoed in the answer, got %q", first)
	}
}
