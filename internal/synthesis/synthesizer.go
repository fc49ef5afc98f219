package synthesis

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/newslens/backend/internal/corpus"
	"github.com/newslens/backend/internal/metrics"
	"github.com/newslens/backend/pkg/logger"
)

// Generator is the capability boundary to the generative text service. The
// live implementation calls out over the network; the stub returns canned
// answers so the system stays demonstrable without credentials.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

// Synthesizer turns (evidence, question) into a StructuredAnswer. Any
// transport or parsing failure is recovered locally with a deterministic
// fallback, never propagated: synthesis as a whole cannot fail.
type Synthesizer struct {
	generator   Generator
	temperature float32
	maxTokens   int
}

func New(generator Generator, temperature float32, maxTokens int) *Synthesizer {
	return &Synthesizer{
		generator:   generator,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Synthesize builds the grounding prompt, invokes the generator once (no
// retries), and parses the output. The returned answer always satisfies
// StructuredAnswer.Valid.
func (s *Synthesizer) Synthesize(ctx context.Context, evidence []corpus.Document, question string) StructuredAnswer {
	prompt := BuildPrompt(evidence, question)

	raw, err := s.generator.Generate(ctx, GenerateRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   prompt,
		Temperature:  s.temperature,
		MaxTokens:    s.maxTokens,
	})
	if err != nil {
		logger.Warn("Generation failed, using fallback answer",
			zap.String("question", question),
			zap.Error(err),
		)
		metrics.SynthesisFallbackTotal.WithLabelValues("generation_error").Inc()
		return fallbackAnswer()
	}

	answer, ok := parseAnswer(raw)
	if !ok {
		logger.Warn("Generator output unusable, using fallback answer",
			zap.String("question", question),
			zap.Int("raw_length", len(raw)),
		)
		metrics.SynthesisFallbackTotal.WithLabelValues("parse_error").Inc()
		return parseFailureAnswer()
	}

	return answer
}

// parseAnswer tries the whole output as JSON first, then the first balanced
// {...} substring. A parsed answer with an empty summary or facts list is
// treated as unusable.
func parseAnswer(raw string) (StructuredAnswer, bool) {
	content := strings.TrimSpace(raw)

	var answer StructuredAnswer
	if err := json.Unmarshal([]byte(content), &answer); err == nil && answer.Valid() {
		return answer, true
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return StructuredAnswer{}, false
	}

	if err := json.Unmarshal([]byte(content[start:end+1]), &answer); err != nil || !answer.Valid() {
		return StructuredAnswer{}, false
	}
	return answer, true
}

func parseFailureAnswer() StructuredAnswer {
	return StructuredAnswer{
		Summary: []string{"Error parsing the generated response"},
		Facts:   []string{"The generated response could not be properly formatted"},
	}
}

func fallbackAnswer() StructuredAnswer {
	return StructuredAnswer{
		Summary: []string{"The answer service is temporarily unavailable"},
		Facts:   []string{"No generated facts available for this question"},
	}
}
