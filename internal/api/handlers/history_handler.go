package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newslens/backend/internal/answer"
)

type HistoryHandler struct {
	engine *answer.Engine
}

func NewHistoryHandler(engine *answer.Engine) *HistoryHandler {
	return &HistoryHandler{engine: engine}
}

// HandleHistory lists root responses newest first, each with the caller's
// feedback rating attached when present.
func (h *HistoryHandler) HandleHistory(c *fiber.Ctx) error {
	entries, err := h.engine.History(c.Context(), c.Query("user_id"))
	if err != nil {
		return writeEngineError(c, err, "Failed to load history")
	}

	return c.JSON(entries)
}

// HandleResponseHistory lists the regenerations of one response, oldest
// first. An unknown response id yields an empty list.
func (h *HistoryHandler) HandleResponseHistory(c *fiber.Ctx) error {
	responseID := c.Params("id")
	if responseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "response id is required",
		})
	}

	entries, err := h.engine.Regenerations(c.Context(), responseID, c.Query("user_id"))
	if err != nil {
		return writeEngineError(c, err, "Failed to load regenerations")
	}

	return c.JSON(entries)
}
