package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   MODEL: reviews
========================================================= */

type ReviewModel struct {
	ReviewID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:review_id" json:"review_id"`

	ReviewCourseID  uuid.UUID `gorm:"type:uuid;not null;index:idx_reviews_course;column:review_course_id" json:"review_course_id"`
	ReviewUserEmail string    `gorm:"type:varchar(255);not null;column:review_user_email" json:"review_user_email"`

	ReviewRating int     `gorm:"not null;column:review_rating" json:"review_rating"`
	ReviewText   *string `gorm:"type:text;column:review_text" json:"review_text,omitempty"`

	// audit
	ReviewCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:review_created_at" json:"review_created_at"`
	ReviewUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:review_updated_at" json:"review_updated_at"`
	ReviewDeletedAt gorm.DeletedAt `gorm:"column:review_deleted_at;index" json:"review_deleted_at,omitempty"`
}

func (ReviewModel) TableName() string { return "reviews" }
