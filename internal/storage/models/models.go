package models

import "time"

// Query is one logical question: a (text, user) pair maps to at most one row.
// Created once, never mutated.
type Query struct {
	ID        string
	UserID    string
	QueryText string
	CreatedAt time.Time
}

// Response is one synthesized answer for a query. A response with no parent
// is an original answer; one with a parent is a regeneration that reused the
// parent's evidence verbatim. Responses are immutable once created.
type Response struct {
	ID               string
	QueryID          string
	QueryText        string
	AnswerJSON       string
	DocsJSON         string
	ParentResponseID *string
	CreatedAt        time.Time
}

// Feedback is a user's rating of a response. At most one row exists per
// (user, response); a later submission overwrites rating and comment.
type Feedback struct {
	ID         string
	UserID     string
	QueryID    string
	ResponseID string
	Rating     string
	Comment    string
	CreatedAt  time.Time
}

const (
	RatingLike    = "like"
	RatingDislike = "dislike"
)
