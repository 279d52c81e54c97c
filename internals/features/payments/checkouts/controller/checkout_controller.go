package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/payments/checkouts/dto"
	"kursusku_backend/internals/features/payments/checkouts/service"
	helper "kursusku_backend/internals/helpers"
)

type CheckoutController struct {
	Service *service.CheckoutService
}

func NewCheckoutController(s *service.CheckoutService) *CheckoutController {
	return &CheckoutController{Service: s}
}

func mapCheckoutError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCheckoutCourseNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", service.ErrCheckoutCourseNotFound.Error())
	case errors.Is(err, service.ErrCourseNotPurchasable):
		return helper.JsonError(c, fiber.StatusBadRequest, service.ErrCourseNotPurchasable.Error())
	default:
		log.Printf("[CHECKOUT] ERROR %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process checkout")
	}
}

// POST /api/u/checkouts
func (ctl *CheckoutController) Create(c *fiber.Ctx) error {
	var req dto.CreateCheckoutRequest
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

	row, err := ctl.Service.Create(c.Context(), email, req.CourseID())
	if err != nil {
		return mapCheckoutError(c, err)
	}
	return helper.JsonCreated(c, "Checkout created", dto.FromModel(row))
}

// GET /api/u/checkouts
func (ctl *CheckoutController) ListMine(c *fiber.Ctx) error {
	email, err := helper.GetUserEmailFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.ListMine(c.Context(), email, p.Limit, p.Offset)
	if err != nil {
		return mapCheckoutError(c, err)
	}

	out := make([]dto.CheckoutResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "My checkouts", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}
