package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidatedApp(maxLen int) *fiber.App {
	app := fiber.New()
	app.Use(Middleware(Config{MaxQueryLength: maxLen}))
	app.Post("/query", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Post("/feedback", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body, contentType string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestValidationPassesWellFormedQuery(t *testing.T) {
	app := newValidatedApp(100)
	resp := postJSON(t, app, "/query", `{"query": "tesla news"}`, "application/json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestValidationRejectsWrongContentType(t *testing.T) {
	app := newValidatedApp(100)
	resp := postJSON(t, app, "/feedback", "rating=like", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestValidationRejectsMissingQuery(t *testing.T) {
	app := newValidatedApp(100)
	resp := postJSON(t, app, "/query", `{"user_id": "alice"}`, "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidationRejectsOversizedQuery(t *testing.T) {
	app := newValidatedApp(10)
	resp := postJSON(t, app, "/query", `{"query": "`+strings.Repeat("a", 50)+`"}`, "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidationRejectsMalformedJSON(t *testing.T) {
	app := newValidatedApp(100)
	resp := postJSON(t, app, "/query", `{"query": `, "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
