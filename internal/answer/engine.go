package answer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newslens/backend/internal/cache/redis"
	"github.com/newslens/backend/internal/corpus"
	"github.com/newslens/backend/internal/metrics"
	"github.com/newslens/backend/internal/retrieval"
	"github.com/newslens/backend/internal/storage/models"
	"github.com/newslens/backend/internal/storage/sqlite"
	"github.com/newslens/backend/internal/synthesis"
	"github.com/newslens/backend/pkg/logger"
)

// DefaultUserID stands in when a caller does not identify itself.
const DefaultUserID = "anonymous"

// Engine runs the retrieval-augmented answer pipeline and maintains the
// response lineage: every submitted question becomes a root response, every
// regeneration a child response reusing the root's evidence verbatim.
type Engine struct {
	db        *sqlite.Client
	retriever *retrieval.Retriever
	synth     *synthesis.Synthesizer
	cache     *redis.Client
	topK      int
}

// Result is the engine's answer envelope returned for submit and regenerate.
type Result struct {
	Answer     synthesis.StructuredAnswer `json:"answer"`
	QueryID    string                     `json:"query_id"`
	ResponseID string                     `json:"response_id"`
	Query      string                     `json:"query"`
	Timestamp  time.Time                  `json:"timestamp"`
	Docs       []corpus.Document          `json:"docs"`
}

// HistoryEntry is one lineage listing row, with the viewing user's rating
// attached when present.
type HistoryEntry struct {
	QueryID    string                     `json:"query_id"`
	ResponseID string                     `json:"response_id"`
	Query      string                     `json:"query"`
	Answer     synthesis.StructuredAnswer `json:"answer"`
	Timestamp  time.Time                  `json:"timestamp"`
	Docs       []corpus.Document          `json:"docs"`
	Feedback   *FeedbackInfo              `json:"feedback"`
}

type FeedbackInfo struct {
	Rating string `json:"rating"`
}

func NewEngine(db *sqlite.Client, retriever *retrieval.Retriever, synth *synthesis.Synthesizer, cache *redis.Client, topK int) *Engine {
	return &Engine{
		db:        db,
		retriever: retriever,
		synth:     synth,
		cache:     cache,
		topK:      topK,
	}
}

// SubmitQuery runs the full pipeline for a question: look up or create the
// query row, retrieve evidence, synthesize an answer, and persist a new root
// response.
func (e *Engine) SubmitQuery(ctx context.Context, queryText, userID string) (*Result, error) {
	if queryText == "" {
		return nil, validationError("query text is required")
	}
	if userID == "" {
		userID = DefaultUserID
	}

	start := time.Now()

	query, err := e.db.LookupOrCreateQuery(queryText, userID)
	if err != nil {
		return nil, internalError("failed to look up query", err)
	}

	docs, err := e.retriever.Retrieve(ctx, queryText, e.topK)
	if err != nil {
		metrics.QueryTotal.WithLabelValues("error").Inc()
		return nil, internalError("retrieval failed", err)
	}
	metrics.RetrievalResultsCount.Observe(float64(len(docs)))

	answer := e.synth.Synthesize(ctx, docs, queryText)

	result, err := e.persistResponse(query.ID, queryText, docs, answer, nil)
	if err != nil {
		metrics.QueryTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.QueryTotal.WithLabelValues("success").Inc()
	metrics.QueryDuration.WithLabelValues("submit").Observe(time.Since(start).Seconds())

	logger.Info("Query answered",
		zap.String("query_id", result.QueryID),
		zap.String("response_id", result.ResponseID),
		zap.Int("evidence_docs", len(docs)),
	)

	return result, nil
}

// Regenerate re-synthesizes an answer for an existing response using its
// evidence verbatim: no new retrieval, so two responses in a lineage differ
// only by synthesis variance. The new response becomes a child of the
// original.
func (e *Engine) Regenerate(ctx context.Context, responseID string) (*Result, error) {
	start := time.Now()

	original, err := e.db.GetResponse(responseID)
	if err != nil {
		if errors.Is(err, sqlite.ErrResponseNotFound) {
			return nil, notFoundError("response not found")
		}
		return nil, internalError("failed to load response", err)
	}

	var docs []corpus.Document
	if err := json.Unmarshal([]byte(original.DocsJSON), &docs); err != nil {
		return nil, internalError("stored evidence is corrupt", err)
	}

	answer := e.synth.Synthesize(ctx, docs, original.QueryText)

	result, err := e.persistResponse(original.QueryID, original.QueryText, docs, answer, &original.ID)
	if err != nil {
		return nil, err
	}

	metrics.RegenerationsTotal.Inc()
	metrics.QueryDuration.WithLabelValues("regenerate").Observe(time.Since(start).Seconds())

	logger.Info("Response regenerated",
		zap.String("parent_response_id", original.ID),
		zap.String("response_id", result.ResponseID),
	)

	return result, nil
}

// History lists root responses newest first, attaching the viewing user's
// rating where one exists.
func (e *Engine) History(ctx context.Context, viewerUserID string) ([]HistoryEntry, error) {
	roots, err := e.db.ListRootResponses()
	if err != nil {
		return nil, internalError("failed to list responses", err)
	}
	return e.buildEntries(roots, viewerUserID)
}

// Regenerations lists the direct children of a response, oldest first. An
// unknown id yields an empty lineage, not an error.
func (e *Engine) Regenerations(ctx context.Context, responseID, viewerUserID string) ([]HistoryEntry, error) {
	children, err := e.db.ListChildResponses(responseID)
	if err != nil {
		return nil, internalError("failed to list regenerations", err)
	}
	return e.buildEntries(children, viewerUserID)
}

// SubmitFeedback upserts a rating: a second submission for the same (user,
// response) overwrites the first instead of creating another row.
func (e *Engine) SubmitFeedback(ctx context.Context, fb models.Feedback) (string, bool, error) {
	if fb.UserID == "" || fb.QueryID == "" || fb.ResponseID == "" || fb.Rating == "" {
		return "", false, validationError("user_id, query_id, response_id and rating are required")
	}
	if fb.Rating != models.RatingLike && fb.Rating != models.RatingDislike {
		return "", false, validationError("rating must be 'like' or 'dislike'")
	}

	id, created, err := e.db.UpsertFeedback(&fb)
	if err != nil {
		return "", false, internalError("failed to store feedback", err)
	}

	metrics.FeedbackTotal.WithLabelValues(fb.Rating).Inc()

	if err := e.cache.InvalidateAggregate(ctx, fb.ResponseID); err != nil {
		logger.Warn("Failed to invalidate aggregate cache", zap.Error(err))
	}

	return id, created, nil
}

// FeedbackAggregate returns like/dislike totals for a response.
func (e *Engine) FeedbackAggregate(ctx context.Context, responseID string) (likes, dislikes int, err error) {
	if responseID == "" {
		return 0, 0, validationError("response_id is required")
	}

	if l, d, found, cacheErr := e.cache.GetAggregate(ctx, responseID); cacheErr != nil {
		logger.Warn("Aggregate cache read failed", zap.Error(cacheErr))
	} else if found {
		metrics.CacheHits.WithLabelValues("aggregate").Inc()
		return l, d, nil
	}
	metrics.CacheMisses.WithLabelValues("aggregate").Inc()

	likes, dislikes, err = e.db.CountFeedback(responseID)
	if err != nil {
		return 0, 0, internalError("failed to count feedback", err)
	}

	if cacheErr := e.cache.SetAggregate(ctx, responseID, likes, dislikes); cacheErr != nil {
		logger.Warn("Aggregate cache write failed", zap.Error(cacheErr))
	}

	return likes, dislikes, nil
}

func (e *Engine) persistResponse(queryID, queryText string, docs []corpus.Document, answer synthesis.StructuredAnswer, parentID *string) (*Result, error) {
	answerJSON, err := json.Marshal(answer)
	if err != nil {
		return nil, internalError("failed to serialize answer", err)
	}
	docsJSON, err := json.Marshal(docs)
	if err != nil {
		return nil, internalError("failed to serialize evidence", err)
	}

	record := &models.Response{
		ID:               uuid.New().String(),
		QueryID:          queryID,
		AnswerJSON:       string(answerJSON),
		DocsJSON:         string(docsJSON),
		ParentResponseID: parentID,
		CreatedAt:        time.Now(),
	}

	if err := e.db.InsertResponse(record); err != nil {
		return nil, internalError("failed to persist response", err)
	}

	return &Result{
		Answer:     answer,
		QueryID:    queryID,
		ResponseID: record.ID,
		Query:      queryText,
		Timestamp:  record.CreatedAt,
		Docs:       docs,
	}, nil
}

func (e *Engine) buildEntries(responses []models.Response, viewerUserID string) ([]HistoryEntry, error) {
	if viewerUserID == "" {
		viewerUserID = DefaultUserID
	}

	entries := make([]HistoryEntry, 0, len(responses))
	for _, r := range responses {
		var answer synthesis.StructuredAnswer
		if err := json.Unmarshal([]byte(r.AnswerJSON), &answer); err != nil {
			return nil, internalError("stored answer is corrupt", err)
		}

		var docs []corpus.Document
		if err := json.Unmarshal([]byte(r.DocsJSON), &docs); err != nil {
			return nil, internalError("stored evidence is corrupt", err)
		}

		entry := HistoryEntry{
			QueryID:    r.QueryID,
			ResponseID: r.ID,
			Query:      r.QueryText,
			Answer:     answer,
			Timestamp:  r.CreatedAt,
			Docs:       docs,
		}

		fb, err := e.db.GetFeedback(viewerUserID, r.ID)
		if err == nil {
			entry.Feedback = &FeedbackInfo{Rating: fb.Rating}
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, internalError("failed to load feedback", err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
