package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kursusku_backend/internals/features/courses/reviews/dto"
	"kursusku_backend/internals/features/courses/reviews/service"
	helper "kursusku_backend/internals/helpers"
)

type ReviewController struct {
	Service *service.ReviewService
}

func NewReviewController(s *service.ReviewService) *ReviewController {
	return &ReviewController{Service: s}
}

func mapReviewError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrReviewCourseNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", service.ErrReviewCourseNotFound.Error())
	case errors.Is(err, service.ErrNotEnrolled):
		return helper.JsonErrorCode(c, fiber.StatusForbidden, "FORBIDDEN", service.ErrNotEnrolled.Error())
	case errors.Is(err, service.ErrAlreadyReviewed):
		return helper.JsonErrorCode(c, fiber.StatusConflict, "ALREADY_REVIEWED", service.ErrAlreadyReviewed.Error())
	default:
		log.Printf("[REVIEWS] ERROR %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process review")
	}
}

// GET /api/public/courses/:course_id/reviews
func (ctl *ReviewController) ListForCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.ListForCourse(c.Context(), courseID, p.Limit, p.Offset)
	if err != nil {
		return mapReviewError(c, err)
	}
	return helper.JsonList(c, "Reviews", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// POST /api/u/courses/:course_id/reviews
func (ctl *ReviewController) Create(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course id")
	}

	var req dto.CreateReviewRequest
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

	row, err := ctl.Service.Create(c.Context(), courseID, email, &req)
	if err != nil {
		return mapReviewError(c, err)
	}
	return helper.JsonCreated(c, "Review submitted", row)
}
