package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID between services.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the request ID lives in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID makes sure every request has an ID: the incoming X-Request-ID
// header is kept if present, otherwise a fresh UUID is generated. The value
// is stored in context locals and echoed back on the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
