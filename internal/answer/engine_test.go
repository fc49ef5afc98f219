package answer

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newslens/backend/internal/corpus"
	"github.com/newslens/backend/internal/embedding"
	"github.com/newslens/backend/internal/llm"
	"github.com/newslens/backend/internal/retrieval"
	"github.com/newslens/backend/internal/storage/models"
	"github.com/newslens/backend/internal/storage/sqlite"
	"github.com/newslens/backend/internal/synthesis"
	"github.com/newslens/backend/internal/vector"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	db, err := sqlite.NewClient(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	require.NoError(t, db.InitSchema())
	t.Cleanup(func() { db.Close() })

	embedder := embedding.New(corpus.Topics, 8, 0.01)
	ids, vectors := retrieval.EmbedCorpus(embedder, corpus.Documents)
	idx, err := vector.Build(ids, vectors)
	require.NoError(t, err)

	retriever := retrieval.New(embedder, idx, corpus.Documents, nil)
	synth := synthesis.New(llm.NewStubGenerator(), 0.1, 400)

	return NewEngine(db, retriever, synth, nil, 3)
}

func TestSubmitQueryCreatesRootResponse(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	result, err := e.SubmitQuery(ctx, "Which companies are working on AI chips?", "alice")
	require.NoError(t, err)

	assert.NotEmpty(t, result.QueryID)
	assert.NotEmpty(t, result.ResponseID)
	assert.Equal(t, "Which companies are working on AI chips?", result.Query)
	assert.Len(t, result.Docs, 3)
	assert.True(t, result.Answer.Valid())

	// Every fact from the stub cites one of the evidence documents.
	for _, fact := range result.Answer.Facts {
		cited := false
		for _, d := range result.Docs {
			if strings.Contains(fact, "[Source: "+d.ID+"]") {
				cited = true
				break
			}
		}
		assert.True(t, cited, "fact %q cites no evidence document", fact)
	}
}

func TestSubmitQueryValidation(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SubmitQuery(context.Background(), "", "alice")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSubmitQueryDefaultsUser(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.SubmitQuery(context.Background(), "tesla news", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.ResponseID)
}

func TestRegenerateReusesEvidence(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	root, err := e.SubmitQuery(ctx, "What is new with Nvidia?", "alice")
	require.NoError(t, err)

	child, err := e.Regenerate(ctx, root.ResponseID)
	require.NoError(t, err)

	assert.NotEqual(t, root.ResponseID, child.ResponseID)
	assert.Equal(t, root.QueryID, child.QueryID)
	assert.Equal(t, root.Query, child.Query)

	// Evidence is reused verbatim: same documents, same order.
	require.Len(t, child.Docs, len(root.Docs))
	for i := range root.Docs {
		assert.Equal(t, root.Docs[i].ID, child.Docs[i].ID)
	}

	// The child shows up in the root's lineage, oldest first.
	regens, err := e.Regenerations(ctx, root.ResponseID, "alice")
	require.NoError(t, err)
	require.Len(t, regens, 1)
	assert.Equal(t, child.ResponseID, regens[0].ResponseID)
}

func TestRegenerateUnknownResponse(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Regenerate(context.Background(), "no-such-response")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRegenerationsUnknownResponseIsEmpty(t *testing.T) {
	e := newTestEngine(t)

	entries, err := e.Regenerations(context.Background(), "no-such-response", "alice")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConcurrentRegenerations(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	root, err := e.SubmitQuery(ctx, "What is new with Nvidia?", "alice")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.Regenerate(ctx, root.ResponseID)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	regens, err := e.Regenerations(ctx, root.ResponseID, "alice")
	require.NoError(t, err)
	assert.Len(t, regens, 2)
}

func TestHistoryNewestFirstWithFeedback(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	first, err := e.SubmitQuery(ctx, "tesla update", "alice")
	require.NoError(t, err)
	second, err := e.SubmitQuery(ctx, "nvidia update", "alice")
	require.NoError(t, err)

	_, _, err = e.SubmitFeedback(ctx, models.Feedback{
		UserID: "alice", QueryID: first.QueryID, ResponseID: first.ResponseID,
		Rating: models.RatingLike,
	})
	require.NoError(t, err)

	entries, err := e.History(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, second.ResponseID, entries[0].ResponseID)
	assert.Equal(t, first.ResponseID, entries[1].ResponseID)

	require.NotNil(t, entries[1].Feedback)
	assert.Equal(t, models.RatingLike, entries[1].Feedback.Rating)
	assert.Nil(t, entries[0].Feedback)

	// Another viewer sees no feedback attached.
	entries, err = e.History(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, entries[1].Feedback)
}

func TestSubmitFeedbackValidation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	result, err := e.SubmitQuery(ctx, "tesla update", "alice")
	require.NoError(t, err)

	_, _, err = e.SubmitFeedback(ctx, models.Feedback{
		UserID: "alice", QueryID: result.QueryID, ResponseID: result.ResponseID,
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, _, err = e.SubmitFeedback(ctx, models.Feedback{
		UserID: "alice", QueryID: result.QueryID, ResponseID: result.ResponseID,
		Rating: "meh",
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestFeedbackAggregate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	result, err := e.SubmitQuery(ctx, "tesla update", "alice")
	require.NoError(t, err)

	for _, user := range []string{"alice", "bob"} {
		_, _, err := e.SubmitFeedback(ctx, models.Feedback{
			UserID: user, QueryID: result.QueryID, ResponseID: result.ResponseID,
			Rating: models.RatingLike,
		})
		require.NoError(t, err)
	}
	_, _, err = e.SubmitFeedback(ctx, models.Feedback{
		UserID: "carol", QueryID: result.QueryID, ResponseID: result.ResponseID,
		Rating: models.RatingDislike,
	})
	require.NoError(t, err)

	likes, dislikes, err := e.FeedbackAggregate(ctx, result.ResponseID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)
	assert.Equal(t, 1, dislikes)
}
