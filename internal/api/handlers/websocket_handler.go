package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/newslens/backend/internal/answer"
	"github.com/newslens/backend/pkg/logger"
)

// WebSocketHandler serves the streaming variant of the answer pipeline: the
// client sends questions over one socket and receives stage updates followed
// by the final cited answer.
type WebSocketHandler struct {
	engine *answer.Engine
}

func NewWebSocketHandler(engine *answer.Engine) *WebSocketHandler {
	return &WebSocketHandler{engine: engine}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type       string `json:"type"`
			Query      string `json:"query"`
			ResponseID string `json:"response_id"`
			UserID     string `json:"user_id"`
		}

		err := c.ReadJSON(&msg)
		if err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		switch msg.Type {
		case "query":
			h.runQuery(c, msg.Query, msg.UserID)
		case "revalidate":
			h.runRevalidate(c, msg.ResponseID)
		}
	}
}

func (h *WebSocketHandler) runQuery(c *websocket.Conn, queryText, userID string) {
	ctx := context.Background()

	h.sendStage(c, "retrieving")

	result, err := h.engine.SubmitQuery(ctx, queryText, userID)
	if err != nil {
		logger.Error("WebSocket query failed", zap.Error(err))
		h.sendError(c, err)
		return
	}

	h.sendComplete(c, result)
}

func (h *WebSocketHandler) runRevalidate(c *websocket.Conn, responseID string) {
	ctx := context.Background()

	h.sendStage(c, "synthesizing")

	result, err := h.engine.Regenerate(ctx, responseID)
	if err != nil {
		logger.Error("WebSocket revalidate failed", zap.Error(err))
		h.sendError(c, err)
		return
	}

	h.sendComplete(c, result)
}

func (h *WebSocketHandler) sendStage(c *websocket.Conn, stage string) {
	c.WriteJSON(map[string]interface{}{
		"type":  "status",
		"stage": stage,
	})
}

func (h *WebSocketHandler) sendComplete(c *websocket.Conn, result *answer.Result) {
	c.WriteJSON(map[string]interface{}{
		"type":        "complete",
		"answer":      result.Answer,
		"query_id":    result.QueryID,
		"response_id": result.ResponseID,
		"timestamp":   result.Timestamp,
		"docs":        result.Docs,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, err error) {
	msg := "Failed to process request"
	if answer.KindOf(err) == answer.KindNotFound {
		msg = "Response not found"
	} else if answer.KindOf(err) == answer.KindValidation {
		msg = err.Error()
	}

	c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": msg,
	})
}
