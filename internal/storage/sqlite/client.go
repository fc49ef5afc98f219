package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/newslens/backend/internal/storage/models"
	"github.com/newslens/backend/pkg/logger"
)

var (
	ErrQueryNotFound    = errors.New("query not found")
	ErrResponseNotFound = errors.New("response not found")
	ErrParentMismatch   = errors.New("parent response belongs to a different query")
	ErrSelfReference    = errors.New("response cannot be its own parent")
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Ping() error {
	return c.db.Ping()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS queries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		query_text TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_queries_text_user ON queries(query_text, user_id);
	CREATE INDEX IF NOT EXISTS idx_queries_user_created ON queries(user_id, created_at);

	CREATE TABLE IF NOT EXISTS responses (
		id TEXT PRIMARY KEY,
		query_id TEXT NOT NULL,
		answer_json TEXT NOT NULL,
		docs_json TEXT NOT NULL,
		parent_response_id TEXT,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (query_id) REFERENCES queries(id),
		FOREIGN KEY (parent_response_id) REFERENCES responses(id)
	);
	CREATE INDEX IF NOT EXISTS idx_responses_query_created ON responses(query_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_responses_parent ON responses(parent_response_id);

	CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		query_id TEXT NOT NULL,
		response_id TEXT NOT NULL,
		rating TEXT NOT NULL,
		comment TEXT,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (query_id) REFERENCES queries(id),
		FOREIGN KEY (response_id) REFERENCES responses(id)
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_feedback_user_response ON feedback(user_id, response_id);
	CREATE INDEX IF NOT EXISTS idx_feedback_response ON feedback(response_id);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// LookupOrCreateQuery returns the query row for (text, user), creating it if
// absent. The unique index on (query_text, user_id) makes concurrent identical
// submissions converge on a single row: a losing insert falls back to the
// winner's row.
func (c *Client) LookupOrCreateQuery(queryText, userID string) (*models.Query, error) {
	q, err := c.findQuery(queryText, userID)
	if err == nil {
		return q, nil
	}
	if !errors.Is(err, ErrQueryNotFound) {
		return nil, err
	}

	q = &models.Query{
		ID:        uuid.New().String(),
		UserID:    userID,
		QueryText: queryText,
		CreatedAt: time.Now(),
	}

	_, err = c.db.Exec(
		`INSERT INTO queries (id, user_id, query_text, created_at) VALUES (?, ?, ?, ?)`,
		q.ID, q.UserID, q.QueryText, q.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return c.findQuery(queryText, userID)
		}
		return nil, fmt.Errorf("failed to insert query: %w", err)
	}

	logger.Info("Query created",
		zap.String("query_id", q.ID),
		zap.String("user_id", userID),
	)

	return q, nil
}

func (c *Client) findQuery(queryText, userID string) (*models.Query, error) {
	var q models.Query
	var createdAt int64

	err := c.db.QueryRow(
		`SELECT id, user_id, query_text, created_at FROM queries WHERE query_text = ? AND user_id = ?`,
		queryText, userID,
	).Scan(&q.ID, &q.UserID, &q.QueryText, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQueryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find query: %w", err)
	}

	q.CreatedAt = time.Unix(0, createdAt)
	return &q, nil
}

// InsertResponse persists an immutable response row. A child must reference
// an existing parent with the same query_id; self-references are rejected.
// Parent ids therefore always point at strictly earlier records, so the
// lineage forest cannot contain cycles.
func (c *Client) InsertResponse(r *models.Response) error {
	if r.ParentResponseID != nil {
		if *r.ParentResponseID == r.ID {
			return ErrSelfReference
		}

		parent, err := c.GetResponse(*r.ParentResponseID)
		if err != nil {
			return err
		}
		if parent.QueryID != r.QueryID {
			return ErrParentMismatch
		}
	}

	_, err := c.db.Exec(
		`INSERT INTO responses (id, query_id, answer_json, docs_json, parent_response_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.QueryID, r.AnswerJSON, r.DocsJSON, r.ParentResponseID, r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}

	logger.Info("Response recorded",
		zap.String("response_id", r.ID),
		zap.String("query_id", r.QueryID),
		zap.Bool("regeneration", r.ParentResponseID != nil),
	)

	return nil
}

func (c *Client) GetResponse(id string) (*models.Response, error) {
	var r models.Response
	var parentID sql.NullString
	var createdAt int64

	err := c.db.QueryRow(
		`SELECT r.id, r.query_id, q.query_text, r.answer_json, r.docs_json, r.parent_response_id, r.created_at
		 FROM responses r JOIN queries q ON q.id = r.query_id
		 WHERE r.id = ?`,
		id,
	).Scan(&r.ID, &r.QueryID, &r.QueryText, &r.AnswerJSON, &r.DocsJSON, &parentID, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %w", err)
	}

	if parentID.Valid {
		r.ParentResponseID = &parentID.String
	}
	r.CreatedAt = time.Unix(0, createdAt)

	return &r, nil
}

// ListRootResponses returns parent-less responses, newest first.
func (c *Client) ListRootResponses() ([]models.Response, error) {
	return c.listResponses(
		`SELECT r.id, r.query_id, q.query_text, r.answer_json, r.docs_json, r.parent_response_id, r.created_at
		 FROM responses r JOIN queries q ON q.id = r.query_id
		 WHERE r.parent_response_id IS NULL
		 ORDER BY r.created_at DESC, r.rowid DESC`,
	)
}

// ListChildResponses returns direct regenerations of a response, oldest first.
func (c *Client) ListChildResponses(parentID string) ([]models.Response, error) {
	return c.listResponses(
		`SELECT r.id, r.query_id, q.query_text, r.answer_json, r.docs_json, r.parent_response_id, r.created_at
		 FROM responses r JOIN queries q ON q.id = r.query_id
		 WHERE r.parent_response_id = ?
		 ORDER BY r.created_at ASC, r.rowid ASC`,
		parentID,
	)
}

func (c *Client) listResponses(query string, args ...interface{}) ([]models.Response, error) {
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	defer rows.Close()

	var responses []models.Response
	for rows.Next() {
		var r models.Response
		var parentID sql.NullString
		var createdAt int64

		err := rows.Scan(&r.ID, &r.QueryID, &r.QueryText, &r.AnswerJSON, &r.DocsJSON, &parentID, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		if parentID.Valid {
			r.ParentResponseID = &parentID.String
		}
		r.CreatedAt = time.Unix(0, createdAt)
		responses = append(responses, r)
	}

	return responses, rows.Err()
}

// UpsertFeedback stores a rating, overwriting any earlier feedback from the
// same user on the same response. An empty comment keeps the previous one.
// Returns the feedback id and whether a new row was created.
func (c *Client) UpsertFeedback(fb *models.Feedback) (string, bool, error) {
	existing, err := c.GetFeedback(fb.UserID, fb.ResponseID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", false, err
	}

	if existing != nil {
		comment := fb.Comment
		if comment == "" {
			comment = existing.Comment
		}

		_, err := c.db.Exec(
			`UPDATE feedback SET rating = ?, comment = ? WHERE id = ?`,
			fb.Rating, comment, existing.ID,
		)
		if err != nil {
			return "", false, fmt.Errorf("failed to update feedback: %w", err)
		}

		logger.Info("Feedback updated",
			zap.String("feedback_id", existing.ID),
			zap.String("rating", fb.Rating),
		)
		return existing.ID, false, nil
	}

	fb.ID = uuid.New().String()
	fb.CreatedAt = time.Now()

	_, err = c.db.Exec(
		`INSERT INTO feedback (id, user_id, query_id, response_id, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fb.ID, fb.UserID, fb.QueryID, fb.ResponseID, fb.Rating, fb.Comment, fb.CreatedAt.UnixNano(),
	)
	if err != nil {
		return "", false, fmt.Errorf("failed to insert feedback: %w", err)
	}

	logger.Info("Feedback stored",
		zap.String("feedback_id", fb.ID),
		zap.String("response_id", fb.ResponseID),
		zap.String("rating", fb.Rating),
	)

	return fb.ID, true, nil
}

// GetFeedback returns one user's feedback on a response, or (nil, sql.ErrNoRows).
func (c *Client) GetFeedback(userID, responseID string) (*models.Feedback, error) {
	var fb models.Feedback
	var comment sql.NullString
	var createdAt int64

	err := c.db.QueryRow(
		`SELECT id, user_id, query_id, response_id, rating, comment, created_at
		 FROM feedback WHERE user_id = ? AND response_id = ?`,
		userID, responseID,
	).Scan(&fb.ID, &fb.UserID, &fb.QueryID, &fb.ResponseID, &fb.Rating, &comment, &createdAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	fb.Comment = comment.String
	fb.CreatedAt = time.Unix(0, createdAt)

	return &fb, nil
}

// CountFeedback returns the like/dislike totals for a response.
func (c *Client) CountFeedback(responseID string) (likes, dislikes int, err error) {
	err = c.db.QueryRow(
		`SELECT
			COUNT(CASE WHEN rating = ? THEN 1 END),
			COUNT(CASE WHEN rating = ? THEN 1 END)
		 FROM feedback WHERE response_id = ?`,
		models.RatingLike, models.RatingDislike, responseID,
	).Scan(&likes, &dislikes)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count feedback: %w", err)
	}

	return likes, dislikes, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
