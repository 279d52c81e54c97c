package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helper "kursusku_backend/internals/helpers"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // use cookie access_token when no Bearer header
}

// AuthJWT is the strict identity check: a missing or invalid credential fails the
// request with 401. Role is NOT read from claims; the WithUserRole middleware loads
// it fresh from storage so role changes apply on the next request.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := extractRawToken(c, o.AllowCookieFallback)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		claims, err := parseAccessToken(raw, secret)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid token")
		}

		hydrateIdentityLocals(c, raw, claims)
		if c.Locals(helper.LocUserEmail) == nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token carries no email claim")
		}
		return c.Next()
	}
}

// AuthJWTOptional is the lenient variant for public role-aware endpoints: any
// missing or invalid credential resolves to a guest identity without failing.
func AuthJWTOptional(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWTOptional: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := extractRawToken(c, o.AllowCookieFallback)
		if raw == "" {
			return c.Next()
		}

		claims, err := parseAccessToken(raw, secret)
		if err != nil {
			// treat as anonymous, never fail the public path
			return c.Next()
		}

		hydrateIdentityLocals(c, raw, claims)
		return c.Next()
	}
}

/* ======== internals ======== */

func extractRawToken(c *fiber.Ctx, allowCookie bool) string {
	if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.Trim(strings.TrimSpace(authz[7:]), "\"'")
	}
	if allowCookie {
		return strings.TrimSpace(c.Cookies("access_token"))
	}
	return ""
}

func parseAccessToken(raw, secret string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}
	return claims, nil
}

func hydrateIdentityLocals(c *fiber.Ctx, raw string, claims jwt.MapClaims) {
	c.Locals("jwt_claims", claims)
	helper.SetRawAccessToken(c, raw)

	// user_email is what we mint; email covers tokens from older builds
	if email := strClaim(claims, "user_email"); email != "" {
		c.Locals(helper.LocUserEmail, strings.ToLower(email))
	} else if email := strClaim(claims, "email"); email != "" {
		c.Locals(helper.LocUserEmail, strings.ToLower(email))
	}

	// user_id: prefer sub, fall back to legacy id/user_id claims
	switch {
	case strClaim(claims, "sub") != "":
		c.Locals(helper.LocUserID, strClaim(claims, "sub"))
	case strClaim(claims, "id") != "":
		c.Locals(helper.LocUserID, strClaim(claims, "id"))
	case strClaim(claims, "user_id") != "":
		c.Locals(helper.LocUserID, strClaim(claims, "user_id"))
	}
}

func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
