package http

import (
	"errors"

	apperrors "coffee-store/internal/shared/errors"
	"coffee-store/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

// ErrorHandler is the app-wide error handler. Route errors are never shaped into JSON:
// the client gets the status code and its plain-text reason phrase.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	log = log.WithComponent("http")

	return func(c *fiber.Ctx, err error) error {
		fields := map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		}

		var code int
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		} else {
			appErr := apperrors.WrapError(err, "unhandled request error")
			code = apperrors.HTTPStatus(appErr)
			fields["error_type"] = appErr.Type
			if appErr.Code != "" {
				fields["error_code"] = appErr.Code
			}
			if appErr.Component != "" {
				fields["error_component"] = appErr.Component
			}
		}
		fields["status"] = code

		entry := log.WithContext(c.UserContext()).WithFields(fields)
		switch {
		case apperrors.IsInvalidID(err):
			entry.Warnf("Malformed document id: %v", err)
		case code >= fiber.StatusInternalServerError:
			entry.Errorf("Request failed: %v", err)
		default:
			entry.Warnf("Request rejected: %v", err)
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(code).SendString(fiberutils.StatusMessage(code))
	}
}
