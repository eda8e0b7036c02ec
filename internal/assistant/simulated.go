package assistant

import (
	"context"
	"fmt"
	"strings"
)

// SimulatedModel is the offline default. It produces a deterministic,
// professionally worded reply so the chat surface works without an API key.
type SimulatedModel struct{}

func NewSimulatedModel() *SimulatedModel {
	return &SimulatedModel{}
}

func (m *SimulatedModel) Chat(_ context.Context, messages []Message) (string, error) {
	query := ""
	for _, msg := range messages {
		if msg.Role == RoleUser {
			query = msg.Content
		}
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "How can I help you with your accounts today?", nil
	}
	return fmt.Sprintf(
		"Thank you for your question: %q. The financial intelligence engine is running in offline mode; "+
			"please review your dashboard for current balances and recent activity, or contact support for detailed analysis.",
		query), nil
}

var _ ChatModel = (*SimulatedModel)(nil)
