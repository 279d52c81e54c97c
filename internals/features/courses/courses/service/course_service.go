package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kursusku_backend/internals/constants"
	"kursusku_backend/internals/features/courses/courses/dto"
	"kursusku_backend/internals/features/courses/courses/model"
	"kursusku_backend/internals/features/courses/courses/repository"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrNotCourseOwner = errors.New("course belongs to another instructor")
	ErrUnknownStatus  = errors.New("unknown course status")
)

/* =========================================================
   STORES
   Interfaces so tests can swap in fakes.
========================================================= */

type CourseStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.CourseModel, error)
	FindBySlug(ctx context.Context, slug string) (*model.CourseModel, error)
	List(ctx context.Context, f repository.ListCourseFilter) ([]model.CourseModel, int64, error)
	UniqueSlug(ctx context.Context, base string) (string, error)
	Create(ctx context.Context, m *model.CourseModel) error
	UpdateColumns(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CourseStatus) (int64, error)
	SetImageURL(ctx context.Context, id uuid.UUID, url *string) (int64, error)
	IncrementSeats(ctx context.Context, id uuid.UUID, delta int) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (int64, error)
}

type EnrollmentPurger interface {
	DeleteAllForCourse(ctx context.Context, courseID uuid.UUID) (int64, error)
}

type ReviewPurger interface {
	DeleteAllForCourse(ctx context.Context, courseID uuid.UUID) (int64, error)
}

/* =========================================================
   SERVICE
========================================================= */

type CourseService struct {
	Courses     CourseStore
	Enrollments EnrollmentPurger
	Reviews     ReviewPurger
}

func NewCourseService(courses CourseStore, enrollments EnrollmentPurger, reviews ReviewPurger) *CourseService {
	return &CourseService{Courses: courses, Enrollments: enrollments, Reviews: reviews}
}

func canManage(course *model.CourseModel, callerEmail, callerRole string) bool {
	if callerRole == constants.RoleAdmin {
		return true
	}
	return strings.EqualFold(course.CourseInstructorEmail, callerEmail)
}

/* =========================================================
   READS
========================================================= */

// GetForViewer hides non-approved courses from everyone but the owner and
// admins; hidden means not-found, not forbidden, so probing leaks nothing.
func (s *CourseService) GetForViewer(ctx context.Context, id uuid.UUID, viewerEmail, viewerRole string) (*model.CourseModel, error) {
	course, err := s.Courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	if !course.IsAdmissible() && !canManage(course, viewerEmail, viewerRole) {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *CourseService) GetBySlugForViewer(ctx context.Context, slug, viewerEmail, viewerRole string) (*model.CourseModel, error) {
	course, err := s.Courses.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	if !course.IsAdmissible() && !canManage(course, viewerEmail, viewerRole) {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// Browse is the public catalog: approved (or legacy) courses only.
func (s *CourseService) Browse(ctx context.Context, tag, search string, limit, offset int) ([]model.CourseModel, int64, error) {
	return s.Courses.List(ctx, repository.ListCourseFilter{
		OnlyAdmissible: true,
		Tag:            tag,
		Search:         search,
		Limit:          limit,
		Offset:         offset,
	})
}

// ListMine shows an instructor their own courses in every status.
func (s *CourseService) ListMine(ctx context.Context, instructorEmail, status string, limit, offset int) ([]model.CourseModel, int64, error) {
	if status != "" && !model.IsValidCourseStatus(status) {
		return nil, 0, ErrUnknownStatus
	}
	return s.Courses.List(ctx, repository.ListCourseFilter{
		InstructorEmail: instructorEmail,
		Status:          status,
		Limit:           limit,
		Offset:          offset,
	})
}

// ListAll is the admin view, typically filtered to the approval queue.
func (s *CourseService) ListAll(ctx context.Context, status, search string, limit, offset int) ([]model.CourseModel, int64, error) {
	if status != "" && !model.IsValidCourseStatus(status) {
		return nil, 0, ErrUnknownStatus
	}
	return s.Courses.List(ctx, repository.ListCourseFilter{
		Status: status,
		Search: search,
		Limit:  limit,
		Offset: offset,
	})
}

/* =========================================================
   WRITES
========================================================= */

func (s *CourseService) Create(ctx context.Context, instructorEmail string, req *dto.CreateCourseRequest) (*model.CourseModel, error) {
	base := req.CourseSlug
	if base == "" {
		base = req.CourseTitle
	}
	slug, err := s.Courses.UniqueSlug(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("derive slug: %w", err)
	}

	m, err := req.ToModel(instructorEmail, slug)
	if err != nil {
		return nil, fmt.Errorf("build course: %w", err)
	}
	if err := s.Courses.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}

	log.Printf("[COURSES] SUCCESS create course_id=%s slug=%s instructor=%s", m.CourseID, m.CourseSlug, m.CourseInstructorEmail)
	return m, nil
}

func (s *CourseService) Update(ctx context.Context, id uuid.UUID, callerEmail, callerRole string, req *dto.UpdateCourseRequest) (*model.CourseModel, error) {
	course, err := s.Courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	if !canManage(course, callerEmail, callerRole) {
		return nil, ErrNotCourseOwner
	}

	updates, err := req.ToUpdates()
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return course, nil
	}
	if _, err := s.Courses.UpdateColumns(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	return s.Courses.FindByID(ctx, id)
}

// UpdateStatus moves a course through the approval queue. Admin only; the
// route gate enforces it, this guard keeps the rule even if wiring changes.
func (s *CourseService) UpdateStatus(ctx context.Context, id uuid.UUID, callerRole, status string) (*model.CourseModel, error) {
	if callerRole != constants.RoleAdmin {
		return nil, ErrNotCourseOwner
	}
	if !model.IsValidCourseStatus(status) {
		return nil, ErrUnknownStatus
	}

	rows, err := s.Courses.UpdateStatus(ctx, id, model.CourseStatus(status))
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if rows == 0 {
		return nil, ErrCourseNotFound
	}

	log.Printf("[COURSES] SUCCESS set-status course_id=%s status=%s", id, status)
	return s.Courses.FindByID(ctx, id)
}

// SetCover stores the new cover URL and hands back the previous one so the
// caller can remove the orphaned file.
func (s *CourseService) SetCover(ctx context.Context, id uuid.UUID, callerEmail, callerRole, url string) (oldURL *string, err error) {
	course, err := s.Courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	if !canManage(course, callerEmail, callerRole) {
		return nil, ErrNotCourseOwner
	}

	if _, err := s.Courses.SetImageURL(ctx, id, &url); err != nil {
		return nil, fmt.Errorf("set cover: %w", err)
	}
	return course.CourseImageURL, nil
}

// AdjustSeats applies an admin capacity correction through the same guarded
// statement family as claim and release.
func (s *CourseService) AdjustSeats(ctx context.Context, id uuid.UUID, callerRole string, delta int) (*model.CourseModel, error) {
	if callerRole != constants.RoleAdmin {
		return nil, ErrNotCourseOwner
	}

	rows, err := s.Courses.IncrementSeats(ctx, id, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust seats: %w", err)
	}
	if rows == 0 {
		return nil, ErrCourseNotFound
	}

	log.Printf("[COURSES] SUCCESS adjust-seats course_id=%s delta=%d", id, delta)
	return s.Courses.FindByID(ctx, id)
}

// Delete tears a course down: enrollments first, then reviews, then the row
// itself. Orphaned enrollments must never outlive their course.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID, callerEmail, callerRole string) error {
	course, err := s.Courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("load course: %w", err)
	}
	if !canManage(course, callerEmail, callerRole) {
		return ErrNotCourseOwner
	}

	enrollRows, err := s.Enrollments.DeleteAllForCourse(ctx, id)
	if err != nil {
		return fmt.Errorf("purge enrollments: %w", err)
	}
	reviewRows, err := s.Reviews.DeleteAllForCourse(ctx, id)
	if err != nil {
		return fmt.Errorf("purge reviews: %w", err)
	}
	if _, err := s.Courses.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	log.Printf("[COURSES] SUCCESS delete course_id=%s purged_enrollments=%d purged_reviews=%d by=%s",
		id, enrollRows, reviewRows, callerEmail)
	return nil
}
