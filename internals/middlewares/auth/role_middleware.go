package auth

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/constants"
	helper "kursusku_backend/internals/helpers"
)

// RoleSource resolves a verified email into a role, reading storage directly.
type RoleSource interface {
	ResolveRole(ctx context.Context, email string) (string, error)
}

// WithUserRole loads the caller's role fresh on every request (no caching, no
// role claim in the token), so an admin role change is honored immediately.
// Belongs after AuthJWT on strict chains.
func WithUserRole(src RoleSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, err := helper.GetUserEmailFromToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		role, err := src.ResolveRole(c.UserContext(), email)
		if err != nil {
			log.Printf("[AUTH] role resolve failed for %s: %v", email, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Cannot fetch user role")
		}

		c.Locals(helper.LocUserRole, role)
		return c.Next()
	}
}

// WithUserRoleLenient is the public-chain variant: an anonymous caller becomes a
// guest instead of an error. Belongs after AuthJWTOptional.
func WithUserRoleLenient(src RoleSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := c.Locals(helper.LocUserEmail)
		email, ok := v.(string)
		if !ok || email == "" {
			c.Locals(helper.LocUserRole, constants.RoleGuest)
			return c.Next()
		}

		role, err := src.ResolveRole(c.UserContext(), email)
		if err != nil {
			log.Printf("[AUTH] role resolve failed for %s: %v", email, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Cannot fetch user role")
		}

		c.Locals(helper.LocUserRole, role)
		return c.Next()
	}
}

// OnlyRoles allows the request through when the resolved role is in the set.
func OnlyRoles(customForbiddenMessage string, allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(helper.LocUserRole).(string)
		if !ok || role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}

		if constants.RoleInSet(role, allowedRoles) {
			return c.Next()
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
		}
		return helper.JsonError(c, fiber.StatusForbidden, customForbiddenMessage)
	}
}
