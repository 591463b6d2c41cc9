package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})
}

func TestActorID(t *testing.T) {
	app := fiber.New()
	app.Use(ActorID())

	app.Get("/test", func(c *fiber.Ctx) error {
		if actor, ok := c.Locals(ActorIDLocalKey).(string); ok {
			return c.SendString(actor)
		}
		return c.SendString("anonymous")
	})

	t.Run("stores header value in locals", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(ActorIDHeader, "user-123")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "user-123", buf.String())
	})

	t.Run("absent header leaves request anonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "anonymous", buf.String())
	})
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	app := fiber.New()
	app.Use(RequestID())
	app.Use(Logger(log))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	entries := logs.All()
	assert.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.NotEmpty(t, fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/test", fields["path"])
	assert.Equal(t, int64(fiber.StatusAccepted), fields["status"])
	assert.NotNil(t, fields["latency_ms"])
}
