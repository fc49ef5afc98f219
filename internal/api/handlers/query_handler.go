package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/newslens/backend/internal/answer"
	"github.com/newslens/backend/pkg/logger"
)

type QueryHandler struct {
	engine *answer.Engine
}

func NewQueryHandler(engine *answer.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

// HandleQuery answers a question: retrieves evidence, synthesizes a cited
// answer, and records a new root response.
func (h *QueryHandler) HandleQuery(c *fiber.Ctx) error {
	var req struct {
		Query  string `json:"query"`
		UserID string `json:"user_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.engine.SubmitQuery(c.Context(), req.Query, req.UserID)
	if err != nil {
		return writeEngineError(c, err, "Failed to process query")
	}

	return c.JSON(result)
}

// HandleRevalidate regenerates an answer from an existing response's
// evidence, producing a child response in its lineage.
func (h *QueryHandler) HandleRevalidate(c *fiber.Ctx) error {
	var req struct {
		ResponseID string `json:"response_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ResponseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "response_id is required",
		})
	}

	result, err := h.engine.Regenerate(c.Context(), req.ResponseID)
	if err != nil {
		return writeEngineError(c, err, "Failed to regenerate response")
	}

	return c.JSON(result)
}

// writeEngineError maps engine error kinds onto HTTP statuses. Internal
// details are logged, never returned to the caller.
func writeEngineError(c *fiber.Ctx, err error, internalMsg string) error {
	var de *answer.DomainError
	if errors.As(err, &de) {
		switch de.Kind {
		case answer.KindValidation:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": de.Message,
			})
		case answer.KindNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": de.Message,
				"code":  fiber.StatusNotFound,
			})
		}
	}

	logger.Error(internalMsg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": internalMsg,
	})
}
