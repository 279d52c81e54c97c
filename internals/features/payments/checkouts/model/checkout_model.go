package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   ENUMS
========================================================= */

type CheckoutStatus string

const (
	CheckoutStatusPending  CheckoutStatus = "pending"
	CheckoutStatusPaid     CheckoutStatus = "paid"
	CheckoutStatusExpired  CheckoutStatus = "expired"
	CheckoutStatusCanceled CheckoutStatus = "canceled"
)

/* =========================================================
   MODEL: course_checkouts
========================================================= */

// One row per snap transaction we hand to the gateway. Settlement callbacks
// are handled out of band; this table records intent, not money movement.
type CheckoutModel struct {
	CheckoutID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:checkout_id" json:"checkout_id"`

	CheckoutOrderID string `gorm:"type:varchar(64);not null;uniqueIndex:uq_checkouts_order_id;column:checkout_order_id" json:"checkout_order_id"`

	CheckoutUserEmail string    `gorm:"type:varchar(255);not null;index:idx_checkouts_user;column:checkout_user_email" json:"checkout_user_email"`
	CheckoutCourseID  uuid.UUID `gorm:"type:uuid;not null;index:idx_checkouts_course;column:checkout_course_id" json:"checkout_course_id"`

	CheckoutCourseTitleCache string `gorm:"type:varchar(160);not null;default:'';column:checkout_course_title_cache" json:"checkout_course_title_cache"`

	CheckoutAmountIDR int64 `gorm:"not null;column:checkout_amount_idr" json:"checkout_amount_idr"`

	CheckoutSnapToken   *string `gorm:"type:text;column:checkout_snap_token" json:"checkout_snap_token,omitempty"`
	CheckoutRedirectURL *string `gorm:"type:text;column:checkout_redirect_url" json:"checkout_redirect_url,omitempty"`

	CheckoutStatus CheckoutStatus `gorm:"type:varchar(16);not null;default:'pending';column:checkout_status" json:"checkout_status"`

	// audit
	CheckoutCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:checkout_created_at" json:"checkout_created_at"`
	CheckoutUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:checkout_updated_at" json:"checkout_updated_at"`
}

func (CheckoutModel) TableName() string { return "course_checkouts" }
