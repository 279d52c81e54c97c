package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"kursusku_backend/internals/features/courses/enrollments/model"
)

var validate = validator.New()

/* =========================================================
   REQUEST: ENROLL
========================================================= */

type EnrollRequest struct {
	EnrollmentUserEmail   string `json:"user_email" form:"user_email" validate:"required,email,max=255"`
	EnrollmentCourseID    string `json:"course_id" form:"course_id" validate:"required"`
	EnrollmentCourseTitle string `json:"course_title" form:"course_title" validate:"required,min=1,max=160"`
}

func (r *EnrollRequest) Normalize() {
	r.EnrollmentUserEmail = strings.ToLower(strings.TrimSpace(r.EnrollmentUserEmail))
	r.EnrollmentCourseID = strings.TrimSpace(r.EnrollmentCourseID)
	r.EnrollmentCourseTitle = strings.TrimSpace(r.EnrollmentCourseTitle)
}

func (r *EnrollRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if _, err := uuid.Parse(r.EnrollmentCourseID); err != nil {
		return errors.New("course_id must be a valid uuid")
	}
	return nil
}

// CourseID panics-free accessor; call after Validate.
func (r *EnrollRequest) CourseID() uuid.UUID {
	id, _ := uuid.Parse(r.EnrollmentCourseID)
	return id
}

/* =========================================================
   RESPONSE
========================================================= */

type EnrollmentResponse struct {
	EnrollmentID          uuid.UUID `json:"enrollment_id"`
	EnrollmentUserEmail   string    `json:"user_email"`
	EnrollmentCourseID    uuid.UUID `json:"course_id"`
	EnrollmentCourseTitle string    `json:"course_title"`
	EnrollmentEnrolledAt  string    `json:"enrolled_at"`
}

func FromModel(m *model.EnrollmentModel) EnrollmentResponse {
	return EnrollmentResponse{
		EnrollmentID:          m.EnrollmentID,
		EnrollmentUserEmail:   m.EnrollmentUserEmail,
		EnrollmentCourseID:    m.EnrollmentCourseID,
		EnrollmentCourseTitle: m.EnrollmentCourseTitleCache,
		EnrollmentEnrolledAt:  m.EnrollmentEnrolledAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func FromModels(rows []model.EnrollmentModel) []EnrollmentResponse {
	out := make([]EnrollmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
