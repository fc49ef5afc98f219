package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newslens/backend/internal/corpus"
)

func newExactEmbedder() *Embedder {
	// Zero jitter makes vectors exactly reproducible for assertions.
	return New(corpus.Topics, 8, 0)
}

func TestEmbedDimension(t *testing.T) {
	e := New(corpus.Topics, 8, 0.01)

	vec := e.Embed("anything at all", true, "")
	assert.Len(t, vec, 8)
	assert.Equal(t, 8, e.Dimension())
}

func TestEmbedKeywordComponent(t *testing.T) {
	e := newExactEmbedder()

	// "tesla" is topic 1, so it lands in component 1.
	vec := e.Embed("tesla production update", true, "")
	assert.InDelta(t, 1.0, vec[1], 1e-6)

	// Topics with no trigger in the text stay at zero.
	assert.InDelta(t, 0.0, vec[5], 1e-6)
}

func TestEmbedTriggerCountedOncePerTopic(t *testing.T) {
	e := newExactEmbedder()

	// Several tesla triggers in one text still contribute 1.0, not one per
	// trigger.
	vec := e.Embed("tesla autopilot self-driving electric car", true, "")
	assert.InDelta(t, 1.0, vec[1], 1e-6)
}

func TestEmbedBroadTopicBoost(t *testing.T) {
	e := newExactEmbedder()

	vec := e.Embed("which companies are working on ai chips?", true, "")

	// "ai chips" fires the broad topic (component 0) and the nvidia trigger
	// "ai chip" (topic 10, component 2). Both also receive the 0.8 boost.
	assert.InDelta(t, 1.8, vec[0], 1e-6)
	assert.InDelta(t, 1.8, vec[2], 1e-6)

	// Related topics with no literal keyword overlap still get boosted:
	// openai (topic 4), google (6), microsoft (7), adobe (19 -> component 3).
	assert.InDelta(t, 0.8, vec[4], 1e-6)
	assert.InDelta(t, 0.8, vec[6], 1e-6)
	assert.InDelta(t, 0.8, vec[7], 1e-6)
	assert.InDelta(t, 0.8, vec[3], 1e-6)
}

func TestEmbedNoBoostWithoutBroadMatch(t *testing.T) {
	e := newExactEmbedder()

	vec := e.Embed("tesla battery shortage", true, "")
	assert.InDelta(t, 0.0, vec[4], 1e-6)
	assert.InDelta(t, 0.0, vec[6], 1e-6)
}

func TestEmbedDocumentBoostFromOriginalQuery(t *testing.T) {
	e := newExactEmbedder()

	plain := e.Embed("nvidia revenue grew on gpu demand", false, "")
	boosted := e.Embed("nvidia revenue grew on gpu demand", false, "tell me about artificial intelligence")

	// The boost follows the originating question, not the document text.
	assert.Greater(t, boosted[2], plain[2])
	assert.InDelta(t, 0.8, float64(boosted[4]-plain[4]), 1e-6)
}

func TestEmbedJitterPerturbsButStaysSmall(t *testing.T) {
	exact := newExactEmbedder()
	jittered := New(corpus.Topics, 8, 0.01)

	base := exact.Embed("tesla production update", true, "")
	a := jittered.Embed("tesla production update", true, "")
	b := jittered.Embed("tesla production update", true, "")

	require.Len(t, a, 8)
	assert.NotEqual(t, a, b, "two embeddings of the same text should not be bit-identical")

	for i := range a {
		assert.Less(t, math.Abs(float64(a[i]-base[i])), 0.2,
			"jitter should stay far below the 1.0 keyword signal")
	}
}
