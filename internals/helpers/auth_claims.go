package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/constants"
)

// Locals keys hydrated by the auth middlewares.
const (
	LocUserID    = "user_id"
	LocUserEmail = "user_email"
	LocUserRole  = "user_role"
)

// GetUserEmailFromToken reads the verified email from c.Locals(LocUserEmail).
// Returns 401 when the request carries no verified identity.
func GetUserEmailFromToken(c *fiber.Ctx) (string, error) {
	v := c.Locals(LocUserEmail)
	if v == nil {
		return "", fiber.NewError(fiber.StatusUnauthorized, "You are not signed in")
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "You are not signed in")
	}
	return strings.ToLower(strings.TrimSpace(s)), nil
}

// GetUserRole reads the per-request resolved role. Falls back to guest so
// handlers on the lenient chain can call it unconditionally.
func GetUserRole(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocUserRole).(string); ok && v != "" {
		return v
	}
	return constants.RoleGuest
}
