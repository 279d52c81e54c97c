package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userCtl "kursusku_backend/internals/features/users/users/controller"
	userRepo "kursusku_backend/internals/features/users/users/repository"
	userSvc "kursusku_backend/internals/features/users/users/service"
)

func newUserController(db *gorm.DB) *userCtl.UserController {
	return userCtl.NewUserController(userSvc.NewRoleService(userRepo.NewUserRepository(db)))
}

// =========================
// SELF-SERVICE routes (auth mounted on /api/u)
// =========================
func UserSelfRoutes(r fiber.Router, db *gorm.DB) {
	ctl := newUserController(db)
	r.Get("/me", ctl.Me)
	r.Put("/me", ctl.UpsertMe)
}

// =========================
// ADMIN routes (mounted on /api/a)
// =========================
func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := newUserController(db)
	grp := r.Group("/users")
	grp.Get("/", ctl.List)
	grp.Patch("/:email/role", ctl.SetRole)
}
