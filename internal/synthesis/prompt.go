package synthesis

import (
	"fmt"
	"strings"

	"github.com/newslens/backend/internal/corpus"
)

const systemPrompt = "You are an insights assistant. Always respond with valid JSON in the exact format requested. Do not include any text before or after the JSON object."

// BuildPrompt assembles the grounding prompt: the numbered evidence listing,
// the question, the exact JSON shape required, the citation marker format,
// and the insufficient-information escape hatch.
func BuildPrompt(evidence []corpus.Document, question string) string {
	return fmt.Sprintf(`CONTEXT:
%s

QUESTION: %s

Please analyze the context and provide insights about the question. Format your response as a valid JSON object with this exact structure:
{
  "summary": ["key insight 1", "key insight 2"],
  "facts": ["fact 1 with source citation", "fact 2 with source citation"]
}

IMPORTANT: When citing sources, use the exact format [Source: doc_id] (not parentheses).

Only use information from the provided context. If the answer is not found in the context, return:
{
  "summary": ["Insufficient information available"],
  "facts": ["No relevant facts found in the provided context"]
}`, formatContext(evidence), question)
}

func formatContext(evidence []corpus.Document) string {
	lines := make([]string, len(evidence))
	for i, doc := range evidence {
		lines[i] = fmt.Sprintf("%d. %s: %s", i+1, doc.ID, doc.Text)
	}
	return strings.Join(lines, "\n")
}
