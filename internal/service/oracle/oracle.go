package oracle

import (
	"context"
	"fmt"

	"moodmix/internal/config"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const systemPrompt = "You are a music recommendation assistant. " +
	"Always reply with a single JSON object and nothing else: no prose, no markdown fences."

// Service is the text-generation oracle. Constructed once per process from
// the configured provider and injected into the analyzer.
type Service struct {
	chatModel model.ToolCallingChatModel
	provider  string
	modelName string
}

func NewService(ctx context.Context, cfg *config.Config, provider string) (*Service, error) {
	provCfg, ok := cfg.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("provider %s not configured", provider)
	}
	modelName := provCfg.Model
	token := provCfg.APIKey

	var chatModel model.ToolCallingChatModel
	var err error

	switch provider {
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   modelName,
			APIKey:  token,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: token,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  modelName,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    token,
			Model:     modelName,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}

	return &Service{
		chatModel: chatModel,
		provider:  provider,
		modelName: modelName,
	}, nil
}

// Complete sends one prompt and returns the raw completion text. Deadlines
// and cancellation come from the caller's context; no retry at this layer.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{
		{
			Role:    schema.System,
			Content: systemPrompt,
		},
		{
			Role:    schema.User,
			Content: prompt,
		},
	}
	resp, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate completion (%s/%s): %w", s.provider, s.modelName, err)
	}
	return resp.Content, nil
}
