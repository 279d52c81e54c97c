package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kursusku_backend/internals/configs"
	authCtl "kursusku_backend/internals/features/users/auth/controller"
	authSvc "kursusku_backend/internals/features/users/auth/service"
	userRepo "kursusku_backend/internals/features/users/users/repository"
	"kursusku_backend/internals/middlewares"
)

// AuthRoutes mounts the token exchange and sign-out at the app root; these
// are the endpoints reachable without a token.
func AuthRoutes(app fiber.Router, db *gorm.DB) {
	svc := authSvc.NewAuthService(
		userRepo.NewUserRepository(db),
		configs.JWTSecret,
		configs.GoogleClientID,
	)
	ctl := authCtl.NewAuthController(svc)

	grp := app.Group("/api/auth")
	grp.Post("/google", middlewares.GoogleExchangeRateLimiter(), ctl.GoogleExchange)
	grp.Post("/logout", ctl.Logout)
}
