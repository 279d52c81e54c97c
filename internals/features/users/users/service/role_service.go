package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"kursusku_backend/internals/constants"
	"kursusku_backend/internals/features/users/users/dto"
	"kursusku_backend/internals/features/users/users/model"
	"kursusku_backend/internals/features/users/users/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUnknownRole  = errors.New("unknown role")
)

// Interface so tests can swap in fakes.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.UserModel, error)
	GetRoleByEmail(ctx context.Context, email string) (string, error)
	List(ctx context.Context, f repository.ListUserFilter) ([]model.UserModel, int64, error)
	EnsureUser(ctx context.Context, email string, googleSub, name *string) (*model.UserModel, error)
	UpdateProfile(ctx context.Context, email string, updates map[string]any) (int64, error)
	SetRoleByEmail(ctx context.Context, email, role string) (int64, error)
}

type RoleService struct {
	Users UserStore
}

func NewRoleService(users UserStore) *RoleService {
	return &RoleService{Users: users}
}

// ResolveRole reads the role from storage on every call. Tokens never carry
// the role, so a demotion takes effect on the next request; accounts without
// a row count as plain students.
func (s *RoleService) ResolveRole(ctx context.Context, email string) (string, error) {
	role, err := s.Users.GetRoleByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return constants.DefaultRole, nil
		}
		return "", fmt.Errorf("resolve role: %w", err)
	}
	if !constants.IsAssignableRole(role) {
		return constants.DefaultRole, nil
	}
	return role, nil
}

// Profile returns the stored row, or a synthesized default-student view for
// accounts that authenticated but never wrote anything yet.
func (s *RoleService) Profile(ctx context.Context, email string) (*model.UserModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.UserModel{UserEmail: email, UserRole: constants.DefaultRole}, nil
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return u, nil
}

// UpsertProfile creates the row on first write, then applies present fields.
func (s *RoleService) UpsertProfile(ctx context.Context, email string, req *dto.UpsertProfileRequest) (*model.UserModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.Users.EnsureUser(ctx, email, nil, req.UserName); err != nil {
		return nil, fmt.Errorf("ensure user row: %w", err)
	}

	updates := make(map[string]any)
	if req.UserName != nil {
		updates["user_name"] = *req.UserName
	}
	if req.UserBio != nil {
		updates["user_bio"] = *req.UserBio
	}
	if req.UserAvatarURL != nil {
		updates["user_avatar_url"] = *req.UserAvatarURL
	}
	if len(updates) > 0 {
		if _, err := s.Users.UpdateProfile(ctx, email, updates); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}

	return s.Users.FindByEmail(ctx, email)
}

// SetRole assigns a role, creating the account row when the target has never
// signed in, so admins can promote an instructor before their first login.
func (s *RoleService) SetRole(ctx context.Context, targetEmail, role string) (*model.UserModel, error) {
	targetEmail = strings.ToLower(strings.TrimSpace(targetEmail))
	role = strings.ToLower(strings.TrimSpace(role))

	if !constants.IsAssignableRole(role) {
		return nil, ErrUnknownRole
	}

	if _, err := s.Users.EnsureUser(ctx, targetEmail, nil, nil); err != nil {
		return nil, fmt.Errorf("ensure user row: %w", err)
	}
	rows, err := s.Users.SetRoleByEmail(ctx, targetEmail, role)
	if err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	if rows == 0 {
		return nil, ErrUserNotFound
	}

	log.Printf("[USERS] SUCCESS set-role target=%s role=%s", targetEmail, role)
	return s.Users.FindByEmail(ctx, targetEmail)
}

func (s *RoleService) List(ctx context.Context, f repository.ListUserFilter) ([]model.UserModel, int64, error) {
	return s.Users.List(ctx, f)
}
