package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/configs"
	"kursusku_backend/internals/features/users/auth/dto"
	"kursusku_backend/internals/features/users/auth/service"
	helper "kursusku_backend/internals/helpers"
)

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(s *service.AuthService) *AuthController {
	return &AuthController{Service: s}
}

// POST /api/auth/google
func (ctl *AuthController) GoogleExchange(c *fiber.Ctx) error {
	var req dto.GoogleExchangeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	res, err := ctl.Service.ExchangeGoogleToken(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGoogleToken) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID Token")
		}
		log.Printf("[AUTH] ERROR google-exchange: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to sign in with Google")
	}

	// cookie mirrors the token for browser clients; header auth stays primary
	helper.SetAccessTokenCookie(c, res.AccessToken, int(res.ExpiresIn), configs.AppEnv == "production")
	return helper.JsonOK(c, "Signed in", res)
}

// POST /api/auth/logout
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	helper.ClearAccessTokenCookie(c)
	return helper.JsonOK(c, "Signed out", nil)
}
