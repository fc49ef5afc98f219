package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/newslens/backend/internal/answer"
	"github.com/newslens/backend/internal/storage/models"
	"github.com/newslens/backend/pkg/logger"
)

type FeedbackHandler struct {
	engine *answer.Engine
}

func NewFeedbackHandler(engine *answer.Engine) *FeedbackHandler {
	return &FeedbackHandler{engine: engine}
}

// HandleFeedback stores or overwrites a user's rating of a response. A repeat
// submission updates the existing record and returns 200; a first submission
// creates one and returns 201.
func (h *FeedbackHandler) HandleFeedback(c *fiber.Ctx) error {
	var req struct {
		UserID     string `json:"user_id"`
		QueryID    string `json:"query_id"`
		ResponseID string `json:"response_id"`
		Rating     string `json:"rating"`
		Comment    string `json:"comment"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	feedbackID, created, err := h.engine.SubmitFeedback(c.Context(), models.Feedback{
		UserID:     req.UserID,
		QueryID:    req.QueryID,
		ResponseID: req.ResponseID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		return writeEngineError(c, err, "Failed to store feedback")
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}

	return c.Status(status).JSON(fiber.Map{
		"status":      "success",
		"feedback_id": feedbackID,
	})
}

// HandleFeedbackAggregate returns the like/dislike totals for a response.
func (h *FeedbackHandler) HandleFeedbackAggregate(c *fiber.Ctx) error {
	responseID := c.Query("response_id")
	if responseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing response_id",
		})
	}

	likes, dislikes, err := h.engine.FeedbackAggregate(c.Context(), responseID)
	if err != nil {
		return writeEngineError(c, err, "Failed to aggregate feedback")
	}

	return c.JSON(fiber.Map{
		"likes":    likes,
		"dislikes": dislikes,
	})
}
