package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/newslens/backend/internal/synthesis"
	"github.com/newslens/backend/pkg/logger"
)

// contextLinePattern matches one numbered evidence entry of the grounding
// prompt: "1. doc_01: text...".
var contextLinePattern = regexp.MustCompile(`(?m)^\d+\.\s+(\S+):\s+(.+)$`)

// StubGenerator is the deterministic synthesis.Generator used when no API key
// is configured. It reads the evidence listing back out of the prompt and
// answers with facts cited against those document ids, so the full pipeline
// stays demonstrable without live credentials.
type StubGenerator struct{}

func NewStubGenerator() *StubGenerator {
	logger.Info("Using stub generator (no API key configured)")
	return &StubGenerator{}
}

func (g *StubGenerator) Generate(ctx context.Context, req synthesis.GenerateRequest) (string, error) {
	matches := contextLinePattern.FindAllStringSubmatch(req.UserPrompt, -1)
	if len(matches) == 0 {
		return "", fmt.Errorf("prompt contains no evidence listing")
	}

	summary := []string{
		"Based on the available context, here are the key insights",
		"The retrieved articles cover recent developments across major technology companies",
	}
	if strings.Contains(strings.ToLower(req.UserPrompt), "tesla") {
		summary = []string{
			"Tesla faces supply chain challenges in 2024",
			"Battery supply shortages are affecting production",
		}
	}

	facts := make([]string, 0, len(matches))
	for _, m := range matches {
		docID, text := m[1], m[2]
		facts = append(facts, fmt.Sprintf("%s [Source: %s]", firstSentence(text), docID))
	}

	out, err := json.Marshal(synthesis.StructuredAnswer{Summary: summary, Facts: facts})
	if err != nil {
		return "", fmt.Errorf("failed to marshal stub answer: %w", err)
	}
	return string(out), nil
}

func firstSentence(text string) string {
	if i := strings.Index(text, ". "); i != -1 {
		return text[:i+1]
	}
	return text
}
