package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newslens/backend/internal/corpus"
	"github.com/newslens/backend/internal/synthesis"
)

var stubEvidence = []corpus.Document{
	{ID: "doc_01", Text: "Tesla reported battery supply shortages. Output may drop 15%."},
	{ID: "doc_10", Text: "Nvidia revenue surged on AI GPU demand."},
}

func TestStubCitesPromptEvidence(t *testing.T) {
	g := NewStubGenerator()
	prompt := synthesis.BuildPrompt(stubEvidence, "What is happening in tech?")

	raw, err := g.Generate(context.Background(), synthesis.GenerateRequest{UserPrompt: prompt})
	require.NoError(t, err)

	var answer synthesis.StructuredAnswer
	require.NoError(t, json.Unmarshal([]byte(raw), &answer))
	require.True(t, answer.Valid())

	require.Len(t, answer.Facts, 2)
	assert.Contains(t, answer.Facts[0], "[Source: doc_01]")
	assert.Contains(t, answer.Facts[1], "[Source: doc_10]")

	// Facts quote the evidence, trimmed to the first sentence.
	assert.Contains(t, answer.Facts[0], "Tesla reported battery supply shortages.")
	assert.NotContains(t, answer.Facts[0], "15%")
}

func TestStubTeslaSummaryBranch(t *testing.T) {
	g := NewStubGenerator()
	prompt := synthesis.BuildPrompt(stubEvidence, "What is going on with Tesla?")

	raw, err := g.Generate(context.Background(), synthesis.GenerateRequest{UserPrompt: prompt})
	require.NoError(t, err)

	var answer synthesis.StructuredAnswer
	require.NoError(t, json.Unmarshal([]byte(raw), &answer))
	assert.Contains(t, answer.Summary[0], "Tesla")
}

func TestStubRequiresEvidenceListing(t *testing.T) {
	g := NewStubGenerator()

	_, err := g.Generate(context.Background(), synthesis.GenerateRequest{UserPrompt: "no context here"})
	assert.Error(t, err)
}
