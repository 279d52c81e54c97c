package controller

import (
	"errors"
	"log"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/courses/courses/dto"
	"kursusku_backend/internals/features/courses/courses/service"
	helper "kursusku_backend/internals/helpers"
)

type CourseController struct {
	Service *service.CourseService

	// where cover webp files land; served by the static /uploads route
	UploadDir string
}

func NewCourseController(s *service.CourseService, uploadDir string) *CourseController {
	return &CourseController{Service: s, UploadDir: uploadDir}
}

func mapCourseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", service.ErrCourseNotFound.Error())
	case errors.Is(err, service.ErrNotCourseOwner):
		return helper.JsonErrorCode(c, fiber.StatusForbidden, "FORBIDDEN", service.ErrNotCourseOwner.Error())
	case errors.Is(err, service.ErrUnknownStatus):
		return helper.JsonError(c, fiber.StatusBadRequest, service.ErrUnknownStatus.Error())
	default:
		log.Printf("[COURSES] ERROR %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process course")
	}
}

// viewerIdentity reads whatever the lenient auth chain put in Locals; empty
// email plus the guest role is a perfectly fine viewer.
func viewerIdentity(c *fiber.Ctx) (string, string) {
	email, _ := c.Locals(helper.LocUserEmail).(string)
	return strings.ToLower(email), helper.GetUserRole(c)
}

func getCoverFormFile(c *fiber.Ctx) (*multipart.FileHeader, error) {
	names := []string{"cover", "image", "file"}
	for _, n := range names {
		if fh, err := c.FormFile(n); err == nil && fh != nil {
			return fh, nil
		}
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, "Missing cover file (field: cover/image/file)")
}

/* =========================================================
   PUBLIC (lenient auth)
========================================================= */

// GET /api/public/courses
func (ctl *CourseController) Browse(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.Browse(c.Context(), c.Query("tag"), c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return mapCourseError(c, err)
	}
	return helper.JsonList(c, "Courses", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/public/courses/:id
func (ctl *CourseController) Detail(c *fiber.Ctx) error {
	id, err := dto.ParseCourseID(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	email, role := viewerIdentity(c)
	course, err := ctl.Service.GetForViewer(c.Context(), id, email, role)
	if err != nil {
		return mapCourseError(c, err)
	}
	return helper.JsonOK(c, "Course", course)
}

// GET /api/public/courses/slug/:slug
func (ctl *CourseController) DetailBySlug(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	if slug == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course slug")
	}

	email, role := viewerIdentity(c)
	course, err := ctl.Service.GetBySlugForViewer(c.Context(), slug, email, role)
	if err != nil {
		return mapCourseError(c, err)
	}
	return helper.JsonOK(c, "Course", course)
}

/* =========================================================
   INSTRUCTOR
========================================================= */

// GET /api/i/courses
func (ctl *CourseController) ListMine(c *fiber.Ctx) error {
	email, err := helper.GetUserEmailFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.ListMine(c.Context(), email, strings.ToLower(c.Query("status")), p.Limit, p.Offset)
	if err != nil {
		return mapCourseError(c, err)
	}
	return helper.JsonList(c, "My courses", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// POST /api/i/courses
func (ctl *CourseController) Create(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	email, err := helper.GetUserEmailFromToken(c)
	if err != nil {
		return err
	}

	course, err := ctl.Service.Create(c.Context(), email, &req)
	if err != nil {
		return mapCourseError(c, err)
	}
	return helper.JsonCreated(c, "Course created (pending approval)", course)
}

// PATCH /api/i/courses/:id
func (ctl *CourseController) Update(c *fiber.Ctx) error {
	id, err := dto.ParseCourseID(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	var req dto.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	email, err := helper.GetUserEmailFromToken(c)
	if err != nil {
		return err
	}
	role := helper.GetUserRole(c)

	course, err := ctl.Service.Update(c.Context(), id, email, role, &req)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) || errors.Is(err, service.ErrNotCourseOwner) {
			return mapCourseError(c, err)
		}
		// field-level complaints from ToUpdates read better as 422
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}
	return helper.JsonUpdated(c, "Course updated", course)
}

// DELETE /api/i/courses/:id
func (ctl *CourseController) Delete(c *fiber.Ctx) error {
	id, err := dto.ParseCourseID(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	email, err := helper.GetUserEmailFromToken(c)
	if err != nil {
		return err
	}
	role := helper.GetUserRole(c)

	if err := ctl.Service.Delete(c.Context(), id, email, role); err != nil {
		return mapCourseError(c, err)
	}
	return helper.JsonDeleted(c, "Course deleted", fiber.Map{"course_id": id})
}

// PUT /api/i/courses/:id/cover  (multipart)
func (ctl *CourseController) UploadCover(c *fiber.Ctx) error {
	id, err := dto.ParseCourseID(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	email, err := helper.GetUserEmailFromToken(c)
	if err != nil {
		return err
	}
	role := helper.GetUserRole(c)

	fh, err := getCoverFormFile(c)
	if err != nil {
		return err
	}

	data, err := helper.ConvertToWebP(fh, helper.DefaultCoverOptions())
	if err != nil {
		return err
	}
	url, err := helper.SaveCoverImage(ctl.UploadDir, data)
	if err != nil {
		log.Printf("[COURSES] ERROR save cover: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store cover image")
	}

	oldURL, err := ctl.Service.SetCover(c.Context(), id, email, role, url)
	if err != nil {
		helper.RemoveCoverImage(ctl.UploadDir, url)
		return mapCourseError(c, err)
	}
	if oldURL != nil {
		helper.RemoveCoverImage(ctl.UploadDir, *oldURL)
	}

	return helper.JsonUpdated(c, "Cover updated", fiber.Map{"course_id": id, "course_image_url": url})
}

/* =========================================================
   ADMIN
========================================================= */

// GET /api/a/courses
func (ctl *CourseController) ListAll(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.ListAll(c.Context(), strings.ToLower(c.Query("status")), c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return mapCourseError(c, err)
	}
	return helper.JsonList(c, "All courses", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// PATCH /api/a/courses/:id/status
func (ctl *CourseController) UpdateStatus(c *fiber.Ctx) error {
	id, err := dto.ParseCourseID(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	var req dto.UpdateCourseStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	course, err := ctl.Service.UpdateStatus(c.Context(), id, helper.GetUserRole(c), req.CourseStatus)
	if err != nil {
		return mapCourseError(c, err)
	}
	return helper.JsonUpdated(c, "Course status updated", course)
}

// PATCH /api/a/courses/:id/seats
func (ctl *CourseController) AdjustSeats(c *fiber.Ctx) error {
	id, err := dto.ParseCourseID(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	var req dto.AdjustSeatsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	course, err := ctl.Service.AdjustSeats(c.Context(), id, helper.GetUserRole(c), req.SeatsDelta)
	if err != nil {
		return mapCourseError(c, err)
	}
	return helper.JsonUpdated(c, "Course seats adjusted", course)
}
