package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kursusku_backend/internals/constants"
)

/* =========================================================
   MODEL: users
========================================================= */

type UserModel struct {
	UserID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:user_id" json:"user_id"`

	// email is the caller-facing identifier; stored lowercased
	UserEmail string `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email;column:user_email" json:"user_email"`

	// role is mutated only through the admin endpoint
	UserRole string `gorm:"type:varchar(20);not null;default:'student';column:user_role" json:"user_role"`

	// profile
	UserName      *string `gorm:"type:varchar(80);column:user_name" json:"user_name,omitempty"`
	UserBio       *string `gorm:"type:text;column:user_bio" json:"user_bio,omitempty"`
	UserAvatarURL *string `gorm:"type:text;column:user_avatar_url" json:"user_avatar_url,omitempty"`

	// set when the account came in through the Google exchange
	UserGoogleSub *string `gorm:"type:varchar(64);column:user_google_sub" json:"-"`

	// audit
	UserCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:user_created_at" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:user_updated_at" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (UserModel) TableName() string { return "users" }

// EffectiveRole guards against dirty rows; unknown values fall back to the default.
func (u *UserModel) EffectiveRole() string {
	if constants.IsAssignableRole(u.UserRole) {
		return u.UserRole
	}
	return constants.DefaultRole
}
