package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   MODEL: enrollments
========================================================= */

// Enrollments are hard-deleted: unenroll and admission rollback must leave no
// row behind, and the (user, course) unique index has to hold over live rows.
type EnrollmentModel struct {
	EnrollmentID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:enrollment_id" json:"enrollment_id"`

	EnrollmentUserEmail string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_enrollments_user_course;index:idx_enrollments_user;column:enrollment_user_email" json:"enrollment_user_email"`
	EnrollmentCourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_enrollments_user_course;index:idx_enrollments_course;column:enrollment_course_id" json:"enrollment_course_id"`

	// denormalized so enrollment listings render without a join
	EnrollmentCourseTitleCache string `gorm:"type:varchar(160);not null;default:'';column:enrollment_course_title_cache" json:"enrollment_course_title_cache"`

	EnrollmentEnrolledAt time.Time `gorm:"type:timestamptz;not null;default:now();column:enrollment_enrolled_at" json:"enrollment_enrolled_at"`

	// audit
	EnrollmentCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:enrollment_created_at" json:"enrollment_created_at"`
	EnrollmentUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:enrollment_updated_at" json:"enrollment_updated_at"`
}

func (EnrollmentModel) TableName() string { return "enrollments" }
