package http

import (
	"coffee-store/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// requestIDLocal is the fiber local holding the request id
const requestIDLocal = "requestid"

// RequestID assigns a request id, echoing X-Request-ID when the client sent one.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDLocal,
	})
}

// RequestContext copies the request id into the user context so loggers downstream
// can pick it up. It must run after RequestID.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals(requestIDLocal).(string); ok && id != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}
