package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kursusku_backend/internals/constants"
	courseModel "kursusku_backend/internals/features/courses/courses/model"
	"kursusku_backend/internals/features/courses/enrollments/model"
	"kursusku_backend/internals/features/courses/enrollments/repository"
)

// A student can hold this many enrollments at once.
const DefaultMaxActiveEnrollments = 3

const compensationAttempts = 3

/* =========================================================
   SENTINEL ERRORS
   Controllers translate these into stable error codes.
========================================================= */

var (
	ErrIdentityMismatch   = errors.New("enrollment can only be requested for your own account")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrQuotaExceeded      = errors.New("active enrollment limit reached")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseNotApproved  = errors.New("course is not open for enrollment")
	ErrNoSeatsAvailable   = errors.New("course has no seats available")
	ErrSeatConflict       = errors.New("last seat was taken by a concurrent enrollment")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrNotCourseOwner     = errors.New("course belongs to another instructor")
)

/* =========================================================
   STORES
   Interfaces so tests can swap in fakes.
========================================================= */

type CourseStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*courseModel.CourseModel, error)
	ClaimSeat(ctx context.Context, id uuid.UUID) (bool, error)
	ReleaseSeat(ctx context.Context, id uuid.UUID) (int64, error)
}

type EnrollmentStore interface {
	FindByUserAndCourse(ctx context.Context, userEmail string, courseID uuid.UUID) (*model.EnrollmentModel, error)
	CountByUser(ctx context.Context, userEmail string) (int64, error)
	ListByUser(ctx context.Context, userEmail string, limit, offset int) ([]model.EnrollmentModel, int64, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]model.EnrollmentModel, int64, error)
	Create(ctx context.Context, m *model.EnrollmentModel) error
	DeleteByID(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByUserAndCourse(ctx context.Context, userEmail string, courseID uuid.UUID) (int64, error)
}

/* =========================================================
   SERVICE
========================================================= */

type AdmissionService struct {
	Courses     CourseStore
	Enrollments EnrollmentStore

	MaxActive int
	// base delay between compensation retries; attempt n waits n * RetryDelay
	RetryDelay time.Duration
}

func NewAdmissionService(courses CourseStore, enrollments EnrollmentStore) *AdmissionService {
	return &AdmissionService{
		Courses:     courses,
		Enrollments: enrollments,
		MaxActive:   DefaultMaxActiveEnrollments,
		RetryDelay:  100 * time.Millisecond,
	}
}

// Enroll admits callerEmail into a course. There is no wrapping transaction:
// the enrollment row is inserted first, then the seat is claimed with a
// guarded single-statement decrement. When the claim reports zero rows the
// insert is compensated away, so a caller who gets an error holds no row.
func (s *AdmissionService) Enroll(ctx context.Context, callerEmail, requestEmail string, courseID uuid.UUID, courseTitle string) (*model.EnrollmentModel, error) {
	callerEmail = strings.ToLower(strings.TrimSpace(callerEmail))
	requestEmail = strings.ToLower(strings.TrimSpace(requestEmail))

	// the token owner may only enroll themselves
	if callerEmail == "" || callerEmail != requestEmail {
		log.Printf("[ADMISSION] FAIL identity caller=%s request=%s", callerEmail, requestEmail)
		return nil, ErrIdentityMismatch
	}

	// duplicate before quota, so re-enrolling never burns quota headroom
	if _, err := s.Enrollments.FindByUserAndCourse(ctx, callerEmail, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing enrollment: %w", err)
	}

	active, err := s.Enrollments.CountByUser(ctx, callerEmail)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	if active >= int64(s.maxActive()) {
		log.Printf("[ADMISSION] FAIL quota user=%s active=%d", callerEmail, active)
		return nil, ErrQuotaExceeded
	}

	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	if !course.IsAdmissible() {
		return nil, ErrCourseNotApproved
	}
	// cheap precheck; the claim below still decides under contention
	if course.CourseSeats <= 0 {
		return nil, ErrNoSeatsAvailable
	}

	row := &model.EnrollmentModel{
		EnrollmentUserEmail:        callerEmail,
		EnrollmentCourseID:         courseID,
		EnrollmentCourseTitleCache: strings.TrimSpace(courseTitle),
		EnrollmentEnrolledAt:       time.Now().UTC(),
	}
	if err := s.Enrollments.Create(ctx, row); err != nil {
		if repository.IsDuplicateKey(err) {
			// lost a race against our own second request
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}

	claimed, err := s.Courses.ClaimSeat(ctx, courseID)
	if err != nil {
		s.compensate(row.EnrollmentID, callerEmail, courseID)
		return nil, fmt.Errorf("claim seat: %w", err)
	}
	if !claimed {
		// seats ran out between precheck and claim
		s.compensate(row.EnrollmentID, callerEmail, courseID)
		log.Printf("[ADMISSION] FAIL seat-conflict user=%s course_id=%s", callerEmail, courseID)
		return nil, ErrSeatConflict
	}

	log.Printf("[ADMISSION] SUCCESS enroll user=%s course_id=%s enrollment_id=%s", callerEmail, courseID, row.EnrollmentID)
	return row, nil
}

// compensate removes the speculative enrollment row after a failed claim.
// It runs on a fresh context: the cleanup must not die with the request.
func (s *AdmissionService) compensate(enrollmentID uuid.UUID, userEmail string, courseID uuid.UUID) {
	ctx := context.Background()

	var lastErr error
	for attempt := 1; attempt <= compensationAttempts; attempt++ {
		rows, err := s.Enrollments.DeleteByID(ctx, enrollmentID)
		if err == nil {
			log.Printf("[ADMISSION] SUCCESS compensate enrollment_id=%s attempt=%d rows=%d", enrollmentID, attempt, rows)
			return
		}
		lastErr = err
		time.Sleep(time.Duration(attempt) * s.retryDelay())
	}

	// orphan row: it occupies no seat but blocks re-enroll until cleaned up
	log.Printf("[ADMISSION] ERROR compensate gave up enrollment_id=%s user=%s course_id=%s attempts=%d err=%v",
		enrollmentID, userEmail, courseID, compensationAttempts, lastErr)
}

// Unenroll removes an enrollment and gives the seat back. targetEmail other
// than the caller's own requires the admin role.
func (s *AdmissionService) Unenroll(ctx context.Context, callerEmail, callerRole, targetEmail string, courseID uuid.UUID) error {
	callerEmail = strings.ToLower(strings.TrimSpace(callerEmail))
	targetEmail = strings.ToLower(strings.TrimSpace(targetEmail))
	if targetEmail == "" {
		targetEmail = callerEmail
	}
	if targetEmail != callerEmail && callerRole != constants.RoleAdmin {
		return ErrIdentityMismatch
	}

	rows, err := s.Enrollments.DeleteByUserAndCourse(ctx, targetEmail, courseID)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if rows == 0 {
		return ErrEnrollmentNotFound
	}

	s.releaseSeat(courseID, targetEmail)
	log.Printf("[ADMISSION] SUCCESS unenroll user=%s course_id=%s by=%s", targetEmail, courseID, callerEmail)
	return nil
}

// releaseSeat returns the seat with the same bounded retry as compensation.
// A give-up only costs one free seat and is correctable through the admin
// seat adjustment, so the unenroll itself still succeeds.
func (s *AdmissionService) releaseSeat(courseID uuid.UUID, userEmail string) {
	ctx := context.Background()

	var lastErr error
	for attempt := 1; attempt <= compensationAttempts; attempt++ {
		_, err := s.Courses.ReleaseSeat(ctx, courseID)
		if err == nil {
			return
		}
		lastErr = err
		time.Sleep(time.Duration(attempt) * s.retryDelay())
	}

	log.Printf("[ADMISSION] ERROR release gave up course_id=%s user=%s attempts=%d err=%v",
		courseID, userEmail, compensationAttempts, lastErr)
}

/* =========================================================
   LISTINGS
========================================================= */

func (s *AdmissionService) ListMine(ctx context.Context, userEmail string, limit, offset int) ([]model.EnrollmentModel, int64, error) {
	return s.Enrollments.ListByUser(ctx, strings.ToLower(strings.TrimSpace(userEmail)), limit, offset)
}

// Roster lists a course's enrollments for its owning instructor (or an admin).
func (s *AdmissionService) Roster(ctx context.Context, callerEmail, callerRole string, courseID uuid.UUID, limit, offset int) ([]model.EnrollmentModel, int64, error) {
	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCourseNotFound
		}
		return nil, 0, fmt.Errorf("load course: %w", err)
	}
	if callerRole != constants.RoleAdmin && !strings.EqualFold(course.CourseInstructorEmail, callerEmail) {
		return nil, 0, ErrNotCourseOwner
	}
	return s.Enrollments.ListByCourse(ctx, courseID, limit, offset)
}

func (s *AdmissionService) maxActive() int {
	if s.MaxActive > 0 {
		return s.MaxActive
	}
	return DefaultMaxActiveEnrollments
}

func (s *AdmissionService) retryDelay() time.Duration {
	if s.RetryDelay > 0 {
		return s.RetryDelay
	}
	return 100 * time.Millisecond
}
