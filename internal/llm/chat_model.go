package llm

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/motoria/dealer-agent/internal/utils"
)

// MultiKeyChatModel wraps multiple Gemini chat models with round-robin key rotation
// This distributes API requests across multiple keys to avoid rate limits
type MultiKeyChatModel struct {
	models   []model.ToolCallingChatModel
	keyIndex uint64 // atomic counter for round-robin selection
}

// NewMultiKeyChatModel creates a chat model that rotates between multiple API keys
func NewMultiKeyChatModel(ctx context.Context, apiKeys []string, modelName string, temperature *float32, maxTokens *int) (*MultiKeyChatModel, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one API key is required")
	}

	models := make([]model.ToolCallingChatModel, len(apiKeys))

	for i, key := range apiKeys {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: key,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client for key %d: %w", i+1, err)
		}

		chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client:      client,
			Model:       modelName,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model for key %d: %w", i+1, err)
		}

		models[i] = chatModel
	}

	utils.Zlog.Info("Created multi-key chat model with round-robin rotation",
		zap.Int("key_count", len(apiKeys)),
		zap.String("model", modelName))

	return &MultiKeyChatModel{
		models:   models,
		keyIndex: 0,
	}, nil
}

// getNextModel returns the next model using round-robin selection
// Thread-safe: uses atomic operations to ensure fair distribution
func (m *MultiKeyChatModel) getNextModel() model.ToolCallingChatModel {
	if len(m.models) == 1 {
		return m.models[0]
	}
	idx := atomic.AddUint64(&m.keyIndex, 1)
	return m.models[idx%uint64(len(m.models))]
}

// Complete implements Provider. Any backend failure is reported as
// ErrGenerationUnavailable so callers can apply their fallback policy.
func (m *MultiKeyChatModel) Complete(ctx context.Context, messages []Message) (string, error) {
	input := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			input = append(input, schema.SystemMessage(msg.Content))
		case RoleAssistant:
			input = append(input, schema.AssistantMessage(msg.Content, nil))
		default:
			input = append(input, schema.UserMessage(msg.Content))
		}
	}

	out, err := m.getNextModel().Generate(ctx, input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	if out == nil || out.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGenerationUnavailable)
	}
	return out.Content, nil
}
