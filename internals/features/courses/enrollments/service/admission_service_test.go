package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kursusku_backend/internals/constants"
	courseModel "kursusku_backend/internals/features/courses/courses/model"
	"kursusku_backend/internals/features/courses/enrollments/model"
)

/* =========================================================
   FAKES
========================================================= */

type fakeCourseStore struct {
	course  *courseModel.CourseModel
	findErr error

	claimOK    bool
	claimErr   error
	claimCalls int

	releaseErr   error
	releaseCalls int
}

func (f *fakeCourseStore) FindByID(ctx context.Context, id uuid.UUID) (*courseModel.CourseModel, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.course, nil
}

func (f *fakeCourseStore) ClaimSeat(ctx context.Context, id uuid.UUID) (bool, error) {
	f.claimCalls++
	return f.claimOK, f.claimErr
}

func (f *fakeCourseStore) ReleaseSeat(ctx context.Context, id uuid.UUID) (int64, error) {
	f.releaseCalls++
	if f.releaseErr != nil {
		return 0, f.releaseErr
	}
	return 1, nil
}

type fakeEnrollmentStore struct {
	existing *model.EnrollmentModel

	count    int64
	countErr error

	created    []*model.EnrollmentModel
	createErr  error
	lookupUser string

	deleteByIDFn    func(id uuid.UUID) (int64, error)
	deleteByIDCalls int
	deletedIDs      []uuid.UUID

	deleteUserCourseRows int64
	deleteUserCourseErr  error
	deletedUser          string
}

func (f *fakeEnrollmentStore) FindByUserAndCourse(ctx context.Context, userEmail string, courseID uuid.UUID) (*model.EnrollmentModel, error) {
	f.lookupUser = userEmail
	if f.existing != nil {
		return f.existing, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentStore) CountByUser(ctx context.Context, userEmail string) (int64, error) {
	return f.count, f.countErr
}

func (f *fakeEnrollmentStore) ListByUser(ctx context.Context, userEmail string, limit, offset int) ([]model.EnrollmentModel, int64, error) {
	return nil, 0, nil
}

func (f *fakeEnrollmentStore) ListByCourse(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]model.EnrollmentModel, int64, error) {
	return nil, 0, nil
}

func (f *fakeEnrollmentStore) Create(ctx context.Context, m *model.EnrollmentModel) error {
	if f.createErr != nil {
		return f.createErr
	}
	m.EnrollmentID = uuid.New()
	f.created = append(f.created, m)
	return nil
}

func (f *fakeEnrollmentStore) DeleteByID(ctx context.Context, id uuid.UUID) (int64, error) {
	f.deleteByIDCalls++
	f.deletedIDs = append(f.deletedIDs, id)
	if f.deleteByIDFn != nil {
		return f.deleteByIDFn(id)
	}
	return 1, nil
}

func (f *fakeEnrollmentStore) DeleteByUserAndCourse(ctx context.Context, userEmail string, courseID uuid.UUID) (int64, error) {
	f.deletedUser = userEmail
	return f.deleteUserCourseRows, f.deleteUserCourseErr
}

func approvedCourse(seats int) *courseModel.CourseModel {
	status := courseModel.CourseStatusApproved
	return &courseModel.CourseModel{
		CourseID:              uuid.New(),
		CourseTitle:           "Intro to Go",
		CourseInstructorEmail: "instructor@example.com",
		CourseSeats:           seats,
		CourseStatus:          &status,
	}
}

func newTestService(courses *fakeCourseStore, enrollments *fakeEnrollmentStore) *AdmissionService {
	svc := NewAdmissionService(courses, enrollments)
	svc.RetryDelay = time.Millisecond
	return svc
}

/* =========================================================
   ENROLL
========================================================= */

func TestEnrollHappyPath(t *testing.T) {
	courses := &fakeCourseStore{course: approvedCourse(5), claimOK: true}
	enrollments := &fakeEnrollmentStore{}
	svc := newTestService(courses, enrollments)

	row, err := svc.Enroll(context.Background(), "  Student@Example.COM ", "student@example.com", courses.course.CourseID, "  Intro to Go ")
	if err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
	if row.EnrollmentUserEmail != "student@example.com" {
		t.Errorf("user email = %q, want lowercased %q", row.EnrollmentUserEmail, "student@example.com")
	}
	if row.EnrollmentCourseTitleCache != "Intro to Go" {
		t.Errorf("title cache = %q, want trimmed %q", row.EnrollmentCourseTitleCache, "Intro to Go")
	}
	if row.EnrollmentEnrolledAt.IsZero() {
		t.Error("enrolled_at not set")
	}
	if courses.claimCalls != 1 {
		t.Errorf("claim calls = %d, want 1", courses.claimCalls)
	}
	if len(enrollments.created) != 1 {
		t.Fatalf("created rows = %d, want 1", len(enrollments.created))
	}
	if enrollments.lookupUser != "student@example.com" {
		t.Errorf("duplicate lookup used %q, want lowercased email", enrollments.lookupUser)
	}
}

func TestEnrollIdentityMismatch(t *testing.T) {
	tests := []struct {
		name    string
		caller  string
		request string
	}{
		{"different user", "alice@example.com", "bob@example.com"},
		{"empty caller", "", "bob@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := &fakeCourseStore{course: approvedCourse(5), claimOK: true}
			enrollments := &fakeEnrollmentStore{}
			svc := newTestService(courses, enrollments)

			_, err := svc.Enroll(context.Background(), tt.caller, tt.request, courses.course.CourseID, "x")
			if !errors.Is(err, ErrIdentityMismatch) {
				t.Fatalf("err = %v, want ErrIdentityMismatch", err)
			}
			if len(enrollments.created) != 0 || courses.claimCalls != 0 {
				t.Error("stores were touched on an identity mismatch")
			}
		})
	}
}

func TestEnrollMatchesIdentityCaseInsensitively(t *testing.T) {
	courses := &fakeCourseStore{course: approvedCourse(5), claimOK: true}
	svc := newTestService(courses, &fakeEnrollmentStore{})

	if _, err := svc.Enroll(context.Background(), "Alice@Example.com", "alice@EXAMPLE.COM", courses.course.CourseID, "x"); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
}

func TestEnrollRejectsDuplicateBeforeQuota(t *testing.T) {
	courses := &fakeCourseStore{course: approvedCourse(5), claimOK: true}
	enrollments := &fakeEnrollmentStore{
		existing: &model.EnrollmentModel{EnrollmentID: uuid.New()},
		// quota already full; the duplicate must win so re-enrolling
		// reports the real state instead of a quota complaint
		count: 99,
	}
	svc := newTestService(courses, enrollments)

	_, err := svc.Enroll(context.Background(), "a@b.c", "a@b.c", courses.course.CourseID, "x")
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("err = %v, want ErrAlreadyEnrolled", err)
	}
}

func TestEnrollQuotaExceeded(t *testing.T) {
	courses := &fakeCourseStore{course: approvedCourse(5), claimOK: true}
	enrollments := &fakeEnrollmentStore{count: DefaultMaxActiveEnrollments}
	svc := newTestService(courses, enrollments)

	_, err := svc.Enroll(context.Background(), "a@b.c", "a@b.c", courses.course.CourseID, "x")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	if len(enrollments.created) != 0 {
		t.Error("row created despite quota")
	}
}

func TestEnrollHonorsCustomQuota(t *testing.T) {
	courses := &fakeCourseStore{course: approvedCourse(5), claimOK: true}
	enrollments := &fakeEnrollmentStore{count: 4}
	svc := newTestService(courses, enrollments)
	svc.MaxActive = 5

	if _, err := svc.Enroll(context.Background(), "a@b.c", "a@b.c", courses.course.CourseID, "x"); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
}

func TestEnrollCourseGates(t *testing.T) {
	pending := courseModel.CourseStatusPending
	rejected := courseModel.CourseStatusRejected

	tests := []struct {
		name    string
		course  *courseModel.CourseModel
		findErr error
		wantErr error
	}{
		{"missing course", nil, gorm.ErrRecordNotFound, ErrCourseNotFound},
		{"pending course", &courseModel.CourseModel{CourseSeats: 5, CourseStatus: &pending}, nil, ErrCourseNotApproved},
		{"rejected course", &courseModel.CourseModel{CourseSeats: 5, CourseStatus: &rejected}, nil, ErrCourseNotApproved},
		{"sold out course", approvedCourse(0), nil, ErrNoSeatsAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := &fakeCourseStore{course: tt.course, findErr: tt.findErr, claimOK: true}
			enrollments := &fakeEnrollmentStore{}
			svc := newTestService(courses, enrollments)

			_, err := svc.Enroll(context.Background(), "a@b.c", "a@b.c", uuid.New(), "x")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if len(enrollments.created) != 0 {
				t.Error("row created despite gate")
			}
		})
	}
}

func TestEnrollTreatsNilStatusAsApproved(t *testing.T) {
	courses := &fakeCourseStore{
		course:  &courseModel.CourseModel{CourseID: uuid.New(), CourseSeats: 1},
		claimOK: true,
	}
	svc := newTestService(courses, &fakeEnrollmentStore{})

	if _, err := svc.Enroll(context.Background(), "a@b.c", "a@b.c", courses.course.CourseID, "x"); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
}

func TestEnrollTranslatesDuplicateInsert(t *testing.T) {
	courses := &fakeCourseStore{course: approvedCourse(5), claimOK: true}
	enrollments := &fakeEnrollmentStore{
		createErr: errors.New(`ERROR: duplicate key value violates unique constraint "uq_enrollments_user_course" (SQLSTATE 23505)`),
	}
	svc := newTestService(courses, enrollments)

	_, err := svc.Enroll(context.Background(), "a@b.c", "a@b.c", courses.course.CourseID, "x")
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("err = %v, want ErrAlreadyEnrolled", err)
	}
	if courses.claimCalls != 0 {
		t.Error("seat claimed for a duplicate insert")
	}
}

/* =========================================================
   COMPENSATION
========================================================= */

func TestEnrollSeatConflictCompensates(t *testing.T) {
	courses := &fakeCourseStore{course: approvedCourse(1), claimOK: false}
	enrollments := &fakeEnrollmentStore{}
	svc := newTestService(courses, enrollments)

	_, err := svc.Enroll(context.Background(), "a@b.c", "a@b.c", courses.course.CourseID, "x")
	if !errors.Is(err, ErrSeatConflict) {
		t.Fatalf("err = %v, want ErrSeatConflict", err)
	}
	if enrollments.deleteByIDCalls != 1 {
		t.Fatalf("delete calls = %d, want 1", enrollments.deleteByIDCalls)
	}
	if len(enrollments.created) != 1 || enrollments.deletedIDs[0] != enrollments.created[0].EnrollmentID {
		t.Error("compensation removed a different row than the one inserted")
	}
}

func TestEnrollClaimErrorCompensates(t *testing.T) {
	courses := &fakeCourseStore{course: approvedCourse(1), claimErr: errors.New("connection reset")}
	enrollments := &fakeEnrollmentStore{}
	svc := newTestService(courses, enrollments)

	_, err := svc.Enroll(context.Background(), "a@b.c", "a@b.c", courses.course.CourseID, "x")
	if err == nil || errors.Is(err, ErrSeatConflict) {
		t.Fatalf("err = %v, want a plain claim error", err)
	}
	if enrollments.deleteByIDCalls != 1 {
		t.Errorf("delete calls = %d, want 1", enrollments.deleteByIDCalls)
	}
}

func TestCompensationRetriesUntilDeleteSucceeds(t *testing.T) {
	courses := &fakeCourseStore{course: approvedCourse(1), claimOK: false}
	enrollments := &fakeEnrollmentStore{}
	fails := 2
	enrollments.deleteByIDFn = func(uuid.UUID) (int64, error) {
		if fails > 0 {
			fails--
			return 0, errors.New("deadlock detected")
		}
		return 1, nil
	}
	svc := newTestService(courses, enrollments)

	_, err := svc.Enroll(context.Background(), "a@b.c", "a@b.c", courses.course.CourseID, "x")
	if !errors.Is(err, ErrSeatConflict) {
		t.Fatalf("err = %v, want ErrSeatConflict", err)
	}
	if enrollments.deleteByIDCalls != 3 {
		t.Errorf("delete calls = %d, want 3", enrollments.deleteByIDCalls)
	}
}

func TestCompensationGivesUpAfterBoundedAttempts(t *testing.T) {
	courses := &fakeCourseStore{course: approvedCourse(1), claimOK: false}
	enrollments := &fakeEnrollmentStore{}
	enrollments.deleteByIDFn = func(uuid.UUID) (int64, error) {
		return 0, errors.New("still down")
	}
	svc := newTestService(courses, enrollments)

	_, err := svc.Enroll(context.Background(), "a@b.c", "a@b.c", courses.course.CourseID, "x")
	if !errors.Is(err, ErrSeatConflict) {
		t.Fatalf("err = %v, want ErrSeatConflict even when cleanup fails", err)
	}
	if enrollments.deleteByIDCalls != compensationAttempts {
		t.Errorf("delete calls = %d, want %d", enrollments.deleteByIDCalls, compensationAttempts)
	}
}

/* =========================================================
   UNENROLL
========================================================= */

func TestUnenrollSelfReleasesSeat(t *testing.T) {
	courses := &fakeCourseStore{}
	enrollments := &fakeEnrollmentStore{deleteUserCourseRows: 1}
	svc := newTestService(courses, enrollments)

	if err := svc.Unenroll(context.Background(), "A@b.c", constants.RoleStudent, "", uuid.New()); err != nil {
		t.Fatalf("Unenroll returned error: %v", err)
	}
	if enrollments.deletedUser != "a@b.c" {
		t.Errorf("deleted user = %q, want caller's own lowercased email", enrollments.deletedUser)
	}
	if courses.releaseCalls != 1 {
		t.Errorf("release calls = %d, want 1", courses.releaseCalls)
	}
}

func TestUnenrollOtherUser(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		wantErr error
	}{
		{"student cannot remove others", constants.RoleStudent, ErrIdentityMismatch},
		{"instructor cannot remove others", constants.RoleInstructor, ErrIdentityMismatch},
		{"admin can remove others", constants.RoleAdmin, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := &fakeCourseStore{}
			enrollments := &fakeEnrollmentStore{deleteUserCourseRows: 1}
			svc := newTestService(courses, enrollments)

			err := svc.Unenroll(context.Background(), "caller@b.c", tt.role, "target@b.c", uuid.New())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && enrollments.deletedUser != "target@b.c" {
				t.Errorf("deleted user = %q, want target", enrollments.deletedUser)
			}
		})
	}
}

func TestUnenrollMissingEnrollment(t *testing.T) {
	courses := &fakeCourseStore{}
	enrollments := &fakeEnrollmentStore{deleteUserCourseRows: 0}
	svc := newTestService(courses, enrollments)

	err := svc.Unenroll(context.Background(), "a@b.c", constants.RoleStudent, "", uuid.New())
	if !errors.Is(err, ErrEnrollmentNotFound) {
		t.Fatalf("err = %v, want ErrEnrollmentNotFound", err)
	}
	if courses.releaseCalls != 0 {
		t.Error("seat released for a missing enrollment")
	}
}

func TestUnenrollSucceedsWhenReleaseKeepsFailing(t *testing.T) {
	courses := &fakeCourseStore{releaseErr: errors.New("db gone")}
	enrollments := &fakeEnrollmentStore{deleteUserCourseRows: 1}
	svc := newTestService(courses, enrollments)

	if err := svc.Unenroll(context.Background(), "a@b.c", constants.RoleStudent, "", uuid.New()); err != nil {
		t.Fatalf("Unenroll returned error: %v", err)
	}
	if courses.releaseCalls != compensationAttempts {
		t.Errorf("release calls = %d, want %d", courses.releaseCalls, compensationAttempts)
	}
}

/* =========================================================
   ROSTER
========================================================= */

func TestRosterAccess(t *testing.T) {
	course := approvedCourse(5)

	tests := []struct {
		name    string
		caller  string
		role    string
		wantErr error
	}{
		{"owner", "instructor@example.com", constants.RoleInstructor, nil},
		{"owner different case", "Instructor@EXAMPLE.com", constants.RoleInstructor, nil},
		{"admin", "root@example.com", constants.RoleAdmin, nil},
		{"other instructor", "other@example.com", constants.RoleInstructor, ErrNotCourseOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := &fakeCourseStore{course: course}
			svc := newTestService(courses, &fakeEnrollmentStore{})

			_, _, err := svc.Roster(context.Background(), tt.caller, tt.role, course.CourseID, 10, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRosterMissingCourse(t *testing.T) {
	courses := &fakeCourseStore{findErr: gorm.ErrRecordNotFound}
	svc := newTestService(courses, &fakeEnrollmentStore{})

	_, _, err := svc.Roster(context.Background(), "x@y.z", constants.RoleAdmin, uuid.New(), 10, 0)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("err = %v, want ErrCourseNotFound", err)
	}
}
