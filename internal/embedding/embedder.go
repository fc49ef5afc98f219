package embedding

import (
	"math/rand"
	"strings"

	"github.com/newslens/backend/internal/corpus"
)

// Embedder maps text to a fixed-dimension vector from keyword-presence
// features. It stands in for a real embedding model: texts sharing topic
// keywords land close together, unrelated texts land far apart. A small
// Gaussian jitter is added to every component, so embeddings are stable in
// expectation but never bit-identical.
type Embedder struct {
	topics       []corpus.Topic
	topicIndex   map[string]int
	dim          int
	jitterStddev float64
}

// New builds an Embedder over an ordered topic table. The table order is part
// of the embedding contract: topic i contributes to component i mod dim.
func New(topics []corpus.Topic, dim int, jitterStddev float64) *Embedder {
	idx := make(map[string]int, len(topics))
	for i, t := range topics {
		idx[t.Key] = i
	}
	return &Embedder{
		topics:       topics,
		topicIndex:   idx,
		dim:          dim,
		jitterStddev: jitterStddev,
	}
}

// Dimension returns the length of every vector this Embedder produces.
func (e *Embedder) Dimension() int {
	return e.dim
}

// Embed converts text into an embedding vector. isQuery marks the text as a
// question; originalQuery carries the question a document was retrieved for,
// so the broad-topic boost can apply to document embeddings as well. Pass ""
// when embedding corpus documents at index build time.
func (e *Embedder) Embed(text string, isQuery bool, originalQuery string) []float32 {
	vec := make([]float32, e.dim)
	lower := strings.ToLower(text)

	broad := false
	if isQuery {
		broad = e.matchesTopic(lower, corpus.BroadTopicKey)
	} else if originalQuery != "" {
		broad = e.matchesTopic(strings.ToLower(originalQuery), corpus.BroadTopicKey)
	}

	for i, topic := range e.topics {
		for _, trigger := range topic.Triggers {
			if strings.Contains(lower, trigger) {
				vec[i%e.dim] += 1.0
				break
			}
		}
		if broad && isRelatedToBroad(topic.Key) {
			vec[i%e.dim] += 0.8
		}
	}

	for i := range vec {
		vec[i] += float32(rand.NormFloat64() * e.jitterStddev)
	}

	return vec
}

func (e *Embedder) matchesTopic(lowerText, key string) bool {
	i, ok := e.topicIndex[key]
	if !ok {
		return false
	}
	for _, trigger := range e.topics[i].Triggers {
		if strings.Contains(lowerText, trigger) {
			return true
		}
	}
	return false
}

func isRelatedToBroad(key string) bool {
	for _, k := range corpus.RelatedToBroad {
		if key == k {
			return true
		}
	}
	return false
}
