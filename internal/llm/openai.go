package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/newslens/backend/internal/synthesis"
	"github.com/newslens/backend/pkg/circuitbreaker"
	"github.com/newslens/backend/pkg/logger"
)

// OpenAIGenerator is the live synthesis.Generator. Calls are time-bounded and
// wrapped in a circuit breaker; there are no retries, a failed call surfaces
// immediately so the synthesizer can fall back.
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	cb      *circuitbreaker.Breaker
}

func NewOpenAIGenerator(apiKey, model string, timeout time.Duration) *OpenAIGenerator {
	cb := circuitbreaker.New("llm", circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Cooldown:         30 * time.Second,
		Logger:           logger.GetLogger(),
	})

	logger.Info("OpenAI generator initialized", zap.String("model", model))

	return &OpenAIGenerator{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
		cb:      cb,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req synthesis.GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: req.UserPrompt,
		},
	}

	var content string

	err := g.cb.Execute(ctx, func() error {
		resp, err := g.client.CreateChatCompletion(
			ctx,
			openai.ChatCompletionRequest{
				Model:       g.model,
				Messages:    messages,
				Temperature: req.Temperature,
				MaxTokens:   req.MaxTokens,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to create completion: %w", err)
		}

		if len(resp.Choices) == 0 {
			return fmt.Errorf("completion returned no choices")
		}

		logger.Debug("Completion generated",
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		)

		content = resp.Choices[0].Message.Content
		return nil
	})

	if err != nil {
		return "", err
	}

	return content, nil
}
