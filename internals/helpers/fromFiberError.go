package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError renders any error escaping a handler through the standard
// JSON envelope. *fiber.Error keeps its status; everything else is a 500
// with the detail kept out of the response body.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, "Internal server error")
}
