package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseRepo "kursusku_backend/internals/features/courses/courses/repository"
	enrollRepo "kursusku_backend/internals/features/courses/enrollments/repository"
	reviewCtl "kursusku_backend/internals/features/courses/reviews/controller"
	reviewRepo "kursusku_backend/internals/features/courses/reviews/repository"
	reviewSvc "kursusku_backend/internals/features/courses/reviews/service"
)

func newReviewController(db *gorm.DB) *reviewCtl.ReviewController {
	svc := reviewSvc.NewReviewService(
		reviewRepo.NewReviewRepository(db),
		courseRepo.NewCourseRepository(db),
		enrollRepo.NewEnrollmentRepository(db),
	)
	return reviewCtl.NewReviewController(svc)
}

// =========================
// PUBLIC routes (mounted on /api/public)
// =========================
func ReviewPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := newReviewController(db)
	r.Get("/courses/:course_id/reviews", ctl.ListForCourse)
}

// =========================
// USER routes (mounted on /api/u)
// =========================
func ReviewUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := newReviewController(db)
	r.Post("/courses/:course_id/reviews", ctl.Create)
}
