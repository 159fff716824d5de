package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/tapi-ai/simulator/backend/internal/config"
	"github.com/tapi-ai/simulator/backend/internal/model/simulation"
)

// Service wraps the generative-language provider behind a prompt chain:
// persona system prompt, prior simulation turns, then the wrapped query.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the provider client from configuration and compiles
// the conversation chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel)
}

// NewServiceWithModel compiles the conversation chain around an existing
// chat model. Split out so tests can supply a stub model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chatModel: chatModel, chain: runnable}, nil
}

// Generate runs one conversation turn and returns the reply text.
func (s *Service) Generate(ctx context.Context, systemPrompt string, history []simulation.Turn, query string) (string, error) {
	response, err := s.chain.Invoke(ctx, chainInput(systemPrompt, history, query))
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}

	log.Printf("[ai] generated reply, length=%d", len(response.Content))
	return response.Content, nil
}

// Stream runs one conversation turn and streams the reply chunks.
func (s *Service) Stream(ctx context.Context, systemPrompt string, history []simulation.Turn, query string) (*schema.StreamReader[*schema.Message], error) {
	stream, err := s.chain.Stream(ctx, chainInput(systemPrompt, history, query))
	if err != nil {
		return nil, fmt.Errorf("failed to stream chat chain output: %w", err)
	}
	return stream, nil
}

// Complete sends a single standalone prompt with no conversation state.
// The report generator uses this for its one-shot request.
func (s *Service) Complete(ctx context.Context, promptText string) (string, error) {
	response, err := s.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(promptText)})
	if err != nil {
		return "", fmt.Errorf("failed to run completion: %w", err)
	}
	return response.Content, nil
}

func chainInput(systemPrompt string, history []simulation.Turn, query string) map[string]any {
	return map[string]any{
		"system":  systemPrompt,
		"history": historyMessages(history),
		"query":   query,
	}
}

// historyMessages converts stored turns to schema messages, keeping only
// the most recent ones so long simulations stay within the context budget.
func historyMessages(turns []simulation.Turn) []*schema.Message {
	const historyLimit = 20

	if len(turns) == 0 {
		return nil
	}

	startIdx := 0
	if len(turns) > historyLimit {
		startIdx = len(turns) - historyLimit
	}

	history := make([]*schema.Message, 0, len(turns)-startIdx)
	for _, turn := range turns[startIdx:] {
		switch turn.Role {
		case "user":
			history = append(history, schema.UserMessage(turn.Content))
		case "assistant":
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		}
	}

	return history
}
