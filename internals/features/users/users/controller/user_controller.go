package controller

import (
	"errors"
	"log"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"kursusku_backend/internals/features/users/users/dto"
	"kursusku_backend/internals/features/users/users/repository"
	"kursusku_backend/internals/features/users/users/service"
	helper "kursusku_backend/internals/helpers"
)

type UserController struct {
	Service *service.RoleService
}

func NewUserController(s *service.RoleService) *UserController {
	return &UserController{Service: s}
}

func mapUserError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", service.ErrUserNotFound.Error())
	case errors.Is(err, service.ErrUnknownRole):
		return helper.JsonError(c, fiber.StatusBadRequest, service.ErrUnknownRole.Error())
	default:
		log.Printf("[USERS] ERROR %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process user")
	}
}

/* =========================================================
   SELF SERVICE
========================================================= */

// GET /api/u/me
func (ctl *UserController) Me(c *fiber.Ctx) error {
	email, err := helper.GetUserEmailFromToken(c)
	if err != nil {
		return err
	}

	u, err := ctl.Service.Profile(c.Context(), email)
	if err != nil {
		return mapUserError(c, err)
	}
	return helper.JsonOK(c, "Profile", dto.FromModel(u))
}

// PUT /api/u/me
func (ctl *UserController) UpsertMe(c *fiber.Ctx) error {
	var req dto.UpsertProfileRequest
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

	u, err := ctl.Service.UpsertProfile(c.Context(), email, &req)
	if err != nil {
		return mapUserError(c, err)
	}
	return helper.JsonUpdated(c, "Profile saved", dto.FromModel(u))
}

/* =========================================================
   ADMIN
========================================================= */

// GET /api/a/users
func (ctl *UserController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.List(c.Context(), repository.ListUserFilter{
		Role:   strings.ToLower(c.Query("role")),
		Search: c.Query("q"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return mapUserError(c, err)
	}
	return helper.JsonList(c, "Users", dto.FromModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// PATCH /api/a/users/:email/role
func (ctl *UserController) SetRole(c *fiber.Ctx) error {
	target := strings.ToLower(strings.TrimSpace(c.Params("email")))
	if _, err := mail.ParseAddress(target); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid target email")
	}

	var req dto.PatchRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.JsonValidationError(c, helper.ValidationMap(err))
	}

	u, err := ctl.Service.SetRole(c.Context(), target, req.UserRole)
	if err != nil {
		return mapUserError(c, err)
	}
	return helper.JsonUpdated(c, "Role updated", dto.FromModel(u))
}
