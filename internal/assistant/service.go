package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"katalian_bank/internal/repository"
)

const systemPrompt = `You are a senior financial analyst and database assistant for Katalian Bank.
Below is the current state of the bank's user database in JSON format.

DATABASE:
%s

INSTRUCTIONS:
- Answer the user's query accurately based on the provided data.
- Use professional, helpful banking tone.
- Format your answer in clear Markdown.
- If asked about balances, format them as currency.
- If the information is not in the data, state it politely.`

// Service answers analyst queries over the current user database. The whole
// database is serialized into every prompt; the seed set is two users, so
// prompt size is not a concern.
type Service struct {
	model    ChatModel
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewService(model ChatModel, userRepo repository.UserRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{model: model, userRepo: userRepo, logger: logger}
}

// Ask builds the database-grounded prompt and forwards the query.
func (s *Service) Ask(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("empty query")
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("loading user database: %w", err)
	}
	db, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing user database: %w", err)
	}

	messages := []Message{
		{Role: RoleSystem, Content: fmt.Sprintf(systemPrompt, db)},
		{Role: RoleUser, Content: query},
	}

	answer, err := s.model.Chat(ctx, messages)
	if err != nil {
		s.logger.ErrorContext(ctx, "Assistant query failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("chat model: %w", err)
	}
	if answer == "" {
		answer = "I'm sorry, I couldn't process that query."
	}

	s.logger.InfoContext(ctx, "Assistant query answered", slog.Int("answer_length", len(answer)))
	return answer, nil
}
