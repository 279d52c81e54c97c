package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseCtl "kursusku_backend/internals/features/courses/courses/controller"
	courseRepo "kursusku_backend/internals/features/courses/courses/repository"
	courseSvc "kursusku_backend/internals/features/courses/courses/service"
	enrollmentRepo "kursusku_backend/internals/features/courses/enrollments/repository"
	reviewRepo "kursusku_backend/internals/features/courses/reviews/repository"
)

func newCourseController(db *gorm.DB, uploadDir string) *courseCtl.CourseController {
	svc := courseSvc.NewCourseService(
		courseRepo.NewCourseRepository(db),
		enrollmentRepo.NewEnrollmentRepository(db),
		reviewRepo.NewReviewRepository(db),
	)
	return courseCtl.NewCourseController(svc, uploadDir)
}

// =========================
// PUBLIC routes (lenient auth mounted on /api/public)
// =========================
func CoursePublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := newCourseController(db, "")
	grp := r.Group("/courses")
	grp.Get("/", ctl.Browse)
	grp.Get("/slug/:slug", ctl.DetailBySlug)
	grp.Get("/:id", ctl.Detail)
}

// =========================
// INSTRUCTOR routes (auth + role mounted on /api/i)
// =========================
func CourseInstructorRoutes(r fiber.Router, db *gorm.DB, uploadDir string) {
	ctl := newCourseController(db, uploadDir)
	grp := r.Group("/courses")
	grp.Get("/", ctl.ListMine)
	grp.Post("/", ctl.Create)
	grp.Patch("/:id", ctl.Update)
	grp.Delete("/:id", ctl.Delete)
	grp.Put("/:id/cover", ctl.UploadCover)
}

// =========================
// ADMIN routes (mounted on /api/a)
// =========================
func CourseAdminRoutes(r fiber.Router, db *gorm.DB, uploadDir string) {
	ctl := newCourseController(db, uploadDir)
	grp := r.Group("/courses")
	grp.Get("/", ctl.ListAll)
	grp.Patch("/:id/status", ctl.UpdateStatus)
	grp.Patch("/:id/seats", ctl.AdjustSeats)
	grp.Delete("/:id", ctl.Delete)
}
