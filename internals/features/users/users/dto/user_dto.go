package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"kursusku_backend/internals/features/users/users/model"
)

var validate = validator.New()

/* =========================================================
   REQUEST: PROFILE UPSERT (self-service)
========================================================= */

type UpsertProfileRequest struct {
	UserName      *string `json:"user_name,omitempty" validate:"omitempty,min=3,max=80"`
	UserBio       *string `json:"user_bio,omitempty" validate:"omitempty,max=2000"`
	UserAvatarURL *string `json:"user_avatar_url,omitempty" validate:"omitempty,url,max=500"`
}

func (r *UpsertProfileRequest) Normalize() {
	if r.UserName != nil {
		s := strings.TrimSpace(*r.UserName)
		if s == "" {
			r.UserName = nil
		} else {
			r.UserName = &s
		}
	}
	if r.UserBio != nil {
		s := strings.TrimSpace(*r.UserBio)
		if s == "" {
			r.UserBio = nil
		} else {
			r.UserBio = &s
		}
	}
	if r.UserAvatarURL != nil {
		s := strings.TrimSpace(*r.UserAvatarURL)
		if s == "" {
			r.UserAvatarURL = nil
		} else {
			r.UserAvatarURL = &s
		}
	}
}

func (r *UpsertProfileRequest) Validate() error {
	return validate.Struct(r)
}

/* =========================================================
   REQUEST: ROLE PATCH (admin)
========================================================= */

type PatchRoleRequest struct {
	UserRole string `json:"user_role" validate:"required,oneof=student instructor admin"`
}

func (r *PatchRoleRequest) Normalize() {
	r.UserRole = strings.ToLower(strings.TrimSpace(r.UserRole))
}

func (r *PatchRoleRequest) Validate() error {
	return validate.Struct(r)
}

/* =========================================================
   RESPONSE
========================================================= */

type UserResponse struct {
	UserEmail     string  `json:"user_email"`
	UserRole      string  `json:"user_role"`
	UserName      *string `json:"user_name,omitempty"`
	UserBio       *string `json:"user_bio,omitempty"`
	UserAvatarURL *string `json:"user_avatar_url,omitempty"`
}

func FromModel(m *model.UserModel) UserResponse {
	return UserResponse{
		UserEmail:     m.UserEmail,
		UserRole:      m.EffectiveRole(),
		UserName:      m.UserName,
		UserBio:       m.UserBio,
		UserAvatarURL: m.UserAvatarURL,
	}
}

func FromModels(rows []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
