package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseRepo "kursusku_backend/internals/features/courses/courses/repository"
	checkoutCtl "kursusku_backend/internals/features/payments/checkouts/controller"
	checkoutRepo "kursusku_backend/internals/features/payments/checkouts/repository"
	checkoutSvc "kursusku_backend/internals/features/payments/checkouts/service"
)

func newCheckoutController(db *gorm.DB) *checkoutCtl.CheckoutController {
	svc := checkoutSvc.NewCheckoutService(
		checkoutRepo.NewCheckoutRepository(db),
		courseRepo.NewCourseRepository(db),
	)
	return checkoutCtl.NewCheckoutController(svc)
}

// =========================
// USER routes (auth mounted on /api/u)
// =========================
func CheckoutUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := newCheckoutController(db)
	grp := r.Group("/checkouts")
	grp.Post("/", ctl.Create)
	grp.Get("/", ctl.ListMine)
}
