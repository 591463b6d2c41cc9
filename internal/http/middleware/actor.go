package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const (
	// ActorIDHeader carries the identity of the user performing the request.
	// Identity is established upstream (gateway auth); this service only
	// threads it through to the routing and status operations.
	ActorIDHeader = "X-Actor-ID"
	// ActorIDLocalKey is the key used to store the actor ID in Fiber's context locals.
	ActorIDLocalKey = "actor_id"
)

// ActorID copies the caller identity header into context locals. Presence is
// enforced per-route by the handlers that need it, so read-only endpoints
// such as /health stay anonymous.
func ActorID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.Get(ActorIDHeader); id != "" {
			c.Locals(ActorIDLocalKey, id)
		}
		return c.Next()
	}
}
