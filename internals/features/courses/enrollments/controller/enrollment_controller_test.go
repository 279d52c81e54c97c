package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kursusku_backend/internals/constants"
	courseModel "kursusku_backend/internals/features/courses/courses/model"
	"kursusku_backend/internals/features/courses/enrollments/model"
	"kursusku_backend/internals/features/courses/enrollments/service"
	helper "kursusku_backend/internals/helpers"
)

/* =========================================================
   FAKES
========================================================= */

type stubCourseStore struct {
	course  *courseModel.CourseModel
	findErr error
	claimOK bool
}

func (s *stubCourseStore) FindByID(ctx context.Context, id uuid.UUID) (*courseModel.CourseModel, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.course, nil
}

func (s *stubCourseStore) ClaimSeat(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.claimOK, nil
}

func (s *stubCourseStore) ReleaseSeat(ctx context.Context, id uuid.UUID) (int64, error) {
	return 1, nil
}

type stubEnrollmentStore struct {
	existing   *model.EnrollmentModel
	count      int64
	deleteRows int64
}

func (s *stubEnrollmentStore) FindByUserAndCourse(ctx context.Context, userEmail string, courseID uuid.UUID) (*model.EnrollmentModel, error) {
	if s.existing != nil {
		return s.existing, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubEnrollmentStore) CountByUser(ctx context.Context, userEmail string) (int64, error) {
	return s.count, nil
}

func (s *stubEnrollmentStore) ListByUser(ctx context.Context, userEmail string, limit, offset int) ([]model.EnrollmentModel, int64, error) {
	return nil, 0, nil
}

func (s *stubEnrollmentStore) ListByCourse(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]model.EnrollmentModel, int64, error) {
	return nil, 0, nil
}

func (s *stubEnrollmentStore) Create(ctx context.Context, m *model.EnrollmentModel) error {
	m.EnrollmentID = uuid.New()
	m.EnrollmentEnrolledAt = time.Now().UTC()
	return nil
}

func (s *stubEnrollmentStore) DeleteByID(ctx context.Context, id uuid.UUID) (int64, error) {
	return 1, nil
}

func (s *stubEnrollmentStore) DeleteByUserAndCourse(ctx context.Context, userEmail string, courseID uuid.UUID) (int64, error) {
	return s.deleteRows, nil
}

func openCourse(seats int) *courseModel.CourseModel {
	status := courseModel.CourseStatusApproved
	return &courseModel.CourseModel{
		CourseID:              uuid.New(),
		CourseTitle:           "Intro to Go",
		CourseInstructorEmail: "instructor@example.com",
		CourseSeats:           seats,
		CourseStatus:          &status,
	}
}

// newEnrollApp wires the controller behind a fake identity, the way the user
// chain does after the JWT and role middlewares ran.
func newEnrollApp(courses service.CourseStore, enrollments service.EnrollmentStore, callerEmail, callerRole string) *fiber.App {
	svc := service.NewAdmissionService(courses, enrollments)
	svc.RetryDelay = time.Millisecond
	ctl := NewEnrollmentController(svc)

	app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
	app.Use(func(c *fiber.Ctx) error {
		if callerEmail != "" {
			c.Locals(helper.LocUserEmail, callerEmail)
			c.Locals(helper.LocUserRole, callerRole)
		}
		return c.Next()
	})
	app.Post("/enrollments", ctl.Enroll)
	app.Get("/enrollments", ctl.ListMine)
	app.Delete("/enrollments/:course_id", ctl.Unenroll)
	app.Get("/courses/:course_id/enrollments", ctl.Roster)
	return app
}

type envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Data      json.RawMessage     `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.StatusCode, env
}

func enrollBody(email string, courseID uuid.UUID) string {
	return `{"user_email":"` + email + `","course_id":"` + courseID.String() + `","course_title":"Intro to Go"}`
}

/* =========================================================
   ENROLL
========================================================= */

func TestEnrollEndpointCreates(t *testing.T) {
	course := openCourse(5)
	app := newEnrollApp(&stubCourseStore{course: course, claimOK: true}, &stubEnrollmentStore{}, "student@example.com", constants.RoleStudent)

	status, env := doJSON(t, app, http.MethodPost, "/enrollments", enrollBody("student@example.com", course.CourseID))
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (message %q)", status, env.Message)
	}
	if !env.Success || env.Message != "Enrolled" {
		t.Errorf("envelope = %+v", env)
	}

	var data map[string]any
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data["enrollment_user_email"] != "student@example.com" {
		t.Errorf("data = %v", data)
	}
}

func TestEnrollEndpointConflictCodes(t *testing.T) {
	course := openCourse(5)

	tests := []struct {
		name        string
		courses     *stubCourseStore
		enrollments *stubEnrollmentStore
		wantStatus  int
		wantCode    string
	}{
		{
			"already enrolled",
			&stubCourseStore{course: course, claimOK: true},
			&stubEnrollmentStore{existing: &model.EnrollmentModel{EnrollmentID: uuid.New()}},
			http.StatusConflict, "ALREADY_ENROLLED",
		},
		{
			"quota exceeded",
			&stubCourseStore{course: course, claimOK: true},
			&stubEnrollmentStore{count: service.DefaultMaxActiveEnrollments},
			http.StatusConflict, "QUOTA_EXCEEDED",
		},
		{
			"course missing",
			&stubCourseStore{findErr: gorm.ErrRecordNotFound},
			&stubEnrollmentStore{},
			http.StatusNotFound, "NOT_FOUND",
		},
		{
			"course not approved",
			func() *stubCourseStore {
				pending := courseModel.CourseStatusPending
				c := openCourse(5)
				c.CourseStatus = &pending
				return &stubCourseStore{course: c, claimOK: true}
			}(),
			&stubEnrollmentStore{},
			http.StatusConflict, "COURSE_NOT_APPROVED",
		},
		{
			"sold out",
			&stubCourseStore{course: openCourse(0), claimOK: true},
			&stubEnrollmentStore{},
			http.StatusConflict, "NO_SEATS_AVAILABLE",
		},
		{
			"lost the last seat",
			&stubCourseStore{course: openCourse(1), claimOK: false},
			&stubEnrollmentStore{},
			http.StatusConflict, "SEAT_CONFLICT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newEnrollApp(tt.courses, tt.enrollments, "student@example.com", constants.RoleStudent)

			status, env := doJSON(t, app, http.MethodPost, "/enrollments", enrollBody("student@example.com", course.CourseID))
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if env.ErrorCode != tt.wantCode {
				t.Errorf("error_code = %q, want %q", env.ErrorCode, tt.wantCode)
			}
			if env.Success {
				t.Error("success = true on an error response")
			}
		})
	}
}

func TestEnrollEndpointRejectsOtherIdentity(t *testing.T) {
	course := openCourse(5)
	app := newEnrollApp(&stubCourseStore{course: course, claimOK: true}, &stubEnrollmentStore{}, "alice@example.com", constants.RoleStudent)

	status, env := doJSON(t, app, http.MethodPost, "/enrollments", enrollBody("bob@example.com", course.CourseID))
	if status != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", status)
	}
	if env.ErrorCode != "FORBIDDEN" {
		t.Errorf("error_code = %q", env.ErrorCode)
	}
}

func TestEnrollEndpointValidation(t *testing.T) {
	course := openCourse(5)

	tests := []struct {
		name string
		body string
	}{
		{"malformed email", `{"user_email":"not-an-email","course_id":"` + course.CourseID.String() + `","course_title":"x"}`},
		{"missing title", `{"user_email":"a@b.c","course_id":"` + course.CourseID.String() + `"}`},
		{"malformed course id", `{"user_email":"a@b.c","course_id":"nope","course_title":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newEnrollApp(&stubCourseStore{course: course, claimOK: true}, &stubEnrollmentStore{}, "a@b.c", constants.RoleStudent)

			status, env := doJSON(t, app, http.MethodPost, "/enrollments", tt.body)
			if status != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", status)
			}
			if env.ErrorCode != "VALIDATION_ERROR" {
				t.Errorf("error_code = %q", env.ErrorCode)
			}
			if len(env.Errors) == 0 {
				t.Error("no field errors in the envelope")
			}
		})
	}
}

func TestEnrollEndpointRequiresIdentity(t *testing.T) {
	course := openCourse(5)
	app := newEnrollApp(&stubCourseStore{course: course, claimOK: true}, &stubEnrollmentStore{}, "", "")

	status, _ := doJSON(t, app, http.MethodPost, "/enrollments", enrollBody("a@b.c", course.CourseID))
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}

/* =========================================================
   UNENROLL / ROSTER
========================================================= */

func TestUnenrollEndpoint(t *testing.T) {
	app := newEnrollApp(&stubCourseStore{}, &stubEnrollmentStore{deleteRows: 1}, "student@example.com", constants.RoleStudent)

	status, env := doJSON(t, app, http.MethodDelete, "/enrollments/"+uuid.NewString(), "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200 (message %q)", status, env.Message)
	}
}

func TestUnenrollEndpointBadCourseID(t *testing.T) {
	app := newEnrollApp(&stubCourseStore{}, &stubEnrollmentStore{deleteRows: 1}, "student@example.com", constants.RoleStudent)

	status, _ := doJSON(t, app, http.MethodDelete, "/enrollments/not-a-uuid", "")
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestUnenrollEndpointMissingEnrollment(t *testing.T) {
	app := newEnrollApp(&stubCourseStore{}, &stubEnrollmentStore{deleteRows: 0}, "student@example.com", constants.RoleStudent)

	status, env := doJSON(t, app, http.MethodDelete, "/enrollments/"+uuid.NewString(), "")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if env.ErrorCode != "NOT_FOUND" {
		t.Errorf("error_code = %q", env.ErrorCode)
	}
}

func TestRosterEndpointForbiddenForNonOwner(t *testing.T) {
	course := openCourse(5)
	app := newEnrollApp(&stubCourseStore{course: course}, &stubEnrollmentStore{}, "other@example.com", constants.RoleInstructor)

	status, env := doJSON(t, app, http.MethodGet, "/courses/"+course.CourseID.String()+"/enrollments", "")
	if status != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", status)
	}
	if env.ErrorCode != "FORBIDDEN" {
		t.Errorf("error_code = %q", env.ErrorCode)
	}
}

func TestRosterEndpointAllowsOwner(t *testing.T) {
	course := openCourse(5)
	app := newEnrollApp(&stubCourseStore{course: course}, &stubEnrollmentStore{}, "instructor@example.com", constants.RoleInstructor)

	status, _ := doJSON(t, app, http.MethodGet, "/courses/"+course.CourseID.String()+"/enrollments", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
}
