package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"kursusku_backend/internals/features/courses/enrollments/model"
)

func TestEnrollRequestNormalizeAndValidate(t *testing.T) {
	req := EnrollRequest{
		EnrollmentUserEmail:   "  Alice@Example.COM ",
		EnrollmentCourseID:    " 9c5ef20f-8a15-4c1e-9a7c-2f8d4f6f2a11 ",
		EnrollmentCourseTitle: "  Intro to Go  ",
	}
	req.Normalize()

	if req.EnrollmentUserEmail != "alice@example.com" {
		t.Errorf("email = %q", req.EnrollmentUserEmail)
	}
	if req.EnrollmentCourseTitle != "Intro to Go" {
		t.Errorf("title = %q", req.EnrollmentCourseTitle)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if req.CourseID() == uuid.Nil {
		t.Error("CourseID returned nil after Validate passed")
	}
}

func TestEnrollRequestValidateRejects(t *testing.T) {
	base := EnrollRequest{
		EnrollmentUserEmail:   "alice@example.com",
		EnrollmentCourseID:    "9c5ef20f-8a15-4c1e-9a7c-2f8d4f6f2a11",
		EnrollmentCourseTitle: "Intro to Go",
	}
	tests := []struct {
		name   string
		mutate func(*EnrollRequest)
	}{
		{"missing email", func(r *EnrollRequest) { r.EnrollmentUserEmail = "" }},
		{"malformed email", func(r *EnrollRequest) { r.EnrollmentUserEmail = "not-an-email" }},
		{"missing title", func(r *EnrollRequest) { r.EnrollmentCourseTitle = "" }},
		{"bad course id", func(r *EnrollRequest) { r.EnrollmentCourseID = "42" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			req.Normalize()
			if err := req.Validate(); err == nil {
				t.Fatal("expected a validation error, got none")
			}
		})
	}
}

func TestFromModelFormatsTimestamps(t *testing.T) {
	enrolled := time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("WIB", 7*3600))
	m := &model.EnrollmentModel{
		EnrollmentID:               uuid.New(),
		EnrollmentUserEmail:        "alice@example.com",
		EnrollmentCourseID:         uuid.New(),
		EnrollmentCourseTitleCache: "Intro to Go",
		EnrollmentEnrolledAt:       enrolled,
	}

	resp := FromModel(m)
	if resp.EnrollmentEnrolledAt != "2026-03-14T02:26:53Z" {
		t.Errorf("enrolled_at = %q, want UTC RFC3339", resp.EnrollmentEnrolledAt)
	}
	if resp.EnrollmentCourseTitle != "Intro to Go" {
		t.Errorf("course_title = %q", resp.EnrollmentCourseTitle)
	}
}
