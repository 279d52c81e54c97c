package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   ENUMS
========================================================= */

// DB column uses CHECK ('pending'|'approved'|'rejected'); NULL means the row
// predates the approval workflow and is treated as approved.
type CourseStatus string

const (
	CourseStatusPending  CourseStatus = "pending"
	CourseStatusApproved CourseStatus = "approved"
	CourseStatusRejected CourseStatus = "rejected"
)

func IsValidCourseStatus(s string) bool {
	switch CourseStatus(s) {
	case CourseStatusPending, CourseStatusApproved, CourseStatusRejected:
		return true
	}
	return false
}

/* =========================================================
   MODEL: courses
========================================================= */

type CourseModel struct {
	CourseID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:course_id" json:"course_id"`

	CourseTitle       string  `gorm:"type:varchar(160);not null;column:course_title" json:"course_title"`
	CourseSlug        string  `gorm:"type:varchar(160);not null;uniqueIndex:uq_courses_slug;column:course_slug" json:"course_slug"`
	CourseDescription *string `gorm:"type:text;column:course_description" json:"course_description,omitempty"`

	// owner
	CourseInstructorEmail string `gorm:"type:varchar(255);not null;index;column:course_instructor_email" json:"course_instructor_email"`

	// capacity pair: written ONLY by the claim/release statements in the repository
	CourseSeats           int `gorm:"not null;default:0;column:course_seats" json:"course_seats"`
	CourseEnrollmentCount int `gorm:"not null;default:0;column:course_enrollment_count" json:"course_enrollment_count"`

	// NULL status = legacy approved
	CourseStatus *CourseStatus `gorm:"type:varchar(16);column:course_status" json:"course_status,omitempty"`

	CoursePriceIDR int64 `gorm:"not null;default:0;column:course_price_idr" json:"course_price_idr"`

	CourseTags     pq.StringArray `gorm:"type:text[];column:course_tags" json:"course_tags,omitempty"`
	CourseSyllabus datatypes.JSON `gorm:"type:jsonb;column:course_syllabus" json:"course_syllabus,omitempty"`

	CourseImageURL *string `gorm:"type:text;column:course_image_url" json:"course_image_url,omitempty"`

	// audit
	CourseCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:course_created_at" json:"course_created_at"`
	CourseUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:course_updated_at" json:"course_updated_at"`
	CourseDeletedAt gorm.DeletedAt `gorm:"column:course_deleted_at;index" json:"course_deleted_at,omitempty"`
}

func (CourseModel) TableName() string { return "courses" }

// IsAdmissible reports whether enrollment admission may target this course.
// Rows without a status predate the approval workflow and count as approved.
func (m *CourseModel) IsAdmissible() bool {
	return m.CourseStatus == nil || *m.CourseStatus == CourseStatusApproved
}
