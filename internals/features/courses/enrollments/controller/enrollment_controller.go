package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kursusku_backend/internals/features/courses/enrollments/dto"
	"kursusku_backend/internals/features/courses/enrollments/service"
	helper "kursusku_backend/internals/helpers"
)

type EnrollmentController struct {
	Service *service.AdmissionService
}

func NewEnrollmentController(s *service.AdmissionService) *EnrollmentController {
	return &EnrollmentController{Service: s}
}

// mapAdmissionError picks the stable error code for each admission outcome.
// Three distinct conflicts share the 409 status, so clients branch on the code.
func mapAdmissionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIdentityMismatch):
		return helper.JsonErrorCode(c, fiber.StatusForbidden, "FORBIDDEN", service.ErrIdentityMismatch.Error())
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "ALREADY_ENROLLED", service.ErrAlreadyEnrolled.Error())
	case errors.Is(err, service.ErrQuotaExceeded):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "QUOTA_EXCEEDED", service.ErrQuotaExceeded.Error())
	case errors.Is(err, service.ErrCourseNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", service.ErrCourseNotFound.Error())
	case errors.Is(err, service.ErrCourseNotApproved):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "COURSE_NOT_APPROVED", service.ErrCourseNotApproved.Error())
	case errors.Is(err, service.ErrNoSeatsAvailable):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "NO_SEATS_AVAILABLE", service.ErrNoSeatsAvailable.Error())
	case errors.Is(err, service.ErrSeatConflict):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "SEAT_CONFLICT", service.ErrSeatConflict.Error())
	case errors.Is(err, service.ErrEnrollmentNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", service.ErrEnrollmentNotFound.Error())
	case errors.Is(err, service.ErrNotCourseOwner):
		return helper.JsonErrorCode(c, fiber.StatusForbidden, "FORBIDDEN", service.ErrNotCourseOwner.Error())
	default:
		log.Printf("[ENROLLMENTS] ERROR %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process enrollment")
	}
}

// POST /api/u/enrollments
func (ctl *EnrollmentController) Enroll(c *fiber.Ctx) error {
	var req dto.EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	callerEmail, err := helper.GetUserEmailFromToken(c)
	if err != nil {
		return err
	}

	row, err := ctl.Service.Enroll(c.Context(), callerEmail, req.EnrollmentUserEmail, req.CourseID(), req.EnrollmentCourseTitle)
	if err != nil {
		return mapAdmissionError(c, err)
	}
	return helper.JsonCreated(c, "Enrolled", dto.FromModel(row))
}

// DELETE /api/u/enrollments/:course_id
// ?user_email= lets an admin unenroll someone else; everyone else gets themselves.
func (ctl *EnrollmentController) Unenroll(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	callerEmail, err := helper.GetUserEmailFromToken(c)
	if err != nil {
		return err
	}
	callerRole := helper.GetUserRole(c)

	if err := ctl.Service.Unenroll(c.Context(), callerEmail, callerRole, c.Query("user_email"), courseID); err != nil {
		return mapAdmissionError(c, err)
	}
	return helper.JsonDeleted(c, "Enrollment removed", fiber.Map{"course_id": courseID})
}

// GET /api/u/enrollments
func (ctl *EnrollmentController) ListMine(c *fiber.Ctx) error {
	callerEmail, err := helper.GetUserEmailFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.ListMine(c.Context(), callerEmail, p.Limit, p.Offset)
	if err != nil {
		return mapAdmissionError(c, err)
	}
	return helper.JsonList(c, "My enrollments", dto.FromModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/i/courses/:course_id/enrollments
func (ctl *EnrollmentController) Roster(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	callerEmail, err := helper.GetUserEmailFromToken(c)
	if err != nil {
		return err
	}
	callerRole := helper.GetUserRole(c)

	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := ctl.Service.Roster(c.Context(), callerEmail, callerRole, courseID, p.Limit, p.Offset)
	if err != nil {
		return mapAdmissionError(c, err)
	}
	return helper.JsonList(c, "Course roster", dto.FromModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}
