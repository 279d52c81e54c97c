package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseRepo "kursusku_backend/internals/features/courses/courses/repository"
	enrollCtl "kursusku_backend/internals/features/courses/enrollments/controller"
	enrollRepo "kursusku_backend/internals/features/courses/enrollments/repository"
	enrollSvc "kursusku_backend/internals/features/courses/enrollments/service"
)

func newEnrollmentController(db *gorm.DB) *enrollCtl.EnrollmentController {
	svc := enrollSvc.NewAdmissionService(
		courseRepo.NewCourseRepository(db),
		enrollRepo.NewEnrollmentRepository(db),
	)
	return enrollCtl.NewEnrollmentController(svc)
}

// =========================
// USER routes (auth mounted on /api/u)
// burstLimiter throttles the enroll endpoint per account; pass nil to skip.
// =========================
func EnrollmentUserRoutes(r fiber.Router, db *gorm.DB, burstLimiter fiber.Handler) {
	ctl := newEnrollmentController(db)
	grp := r.Group("/enrollments")
	if burstLimiter != nil {
		grp.Post("/", burstLimiter, ctl.Enroll)
	} else {
		grp.Post("/", ctl.Enroll)
	}
	grp.Get("/", ctl.ListMine)
	grp.Delete("/:course_id", ctl.Unenroll)
}

// =========================
// INSTRUCTOR routes (mounted on /api/i)
// =========================
func EnrollmentInstructorRoutes(r fiber.Router, db *gorm.DB) {
	ctl := newEnrollmentController(db)
	r.Get("/courses/:course_id/enrollments", ctl.Roster)
}
