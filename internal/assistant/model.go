// Package assistant is the simulated support chat: a prompt built from the
// in-memory user database, answered by a pluggable chat model.
package assistant

import "context"

// Message is one turn of a model conversation.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatModel abstracts the answer provider. The default is the canned
// simulated model; a Gemini-backed model can be swapped in via config.
type ChatModel interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
