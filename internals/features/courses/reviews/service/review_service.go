package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	courseModel "kursusku_backend/internals/features/courses/courses/model"
	enrollmentModel "kursusku_backend/internals/features/courses/enrollments/model"
	"kursusku_backend/internals/features/courses/reviews/dto"
	"kursusku_backend/internals/features/courses/reviews/model"
	"kursusku_backend/internals/features/courses/reviews/repository"
)

var (
	ErrReviewCourseNotFound = errors.New("course not found")
	ErrNotEnrolled          = errors.New("only enrolled students can review")
	ErrAlreadyReviewed      = errors.New("course already reviewed")
)

// Interfaces so tests can swap in fakes.
type ReviewStore interface {
	Create(ctx context.Context, m *model.ReviewModel) error
	ListByCourse(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]model.ReviewModel, int64, error)
	HasReview(ctx context.Context, courseID uuid.UUID, userEmail string) (bool, error)
}

type CourseGetter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*courseModel.CourseModel, error)
}

type EnrollmentChecker interface {
	FindByUserAndCourse(ctx context.Context, userEmail string, courseID uuid.UUID) (*enrollmentModel.EnrollmentModel, error)
}

type ReviewService struct {
	Reviews     ReviewStore
	Courses     CourseGetter
	Enrollments EnrollmentChecker
}

func NewReviewService(reviews ReviewStore, courses CourseGetter, enrollments EnrollmentChecker) *ReviewService {
	return &ReviewService{Reviews: reviews, Courses: courses, Enrollments: enrollments}
}

// Create accepts one review per enrolled student per course.
func (s *ReviewService) Create(ctx context.Context, courseID uuid.UUID, callerEmail string, req *dto.CreateReviewRequest) (*model.ReviewModel, error) {
	callerEmail = strings.ToLower(strings.TrimSpace(callerEmail))

	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	if !course.IsAdmissible() {
		return nil, ErrReviewCourseNotFound
	}

	if _, err := s.Enrollments.FindByUserAndCourse(ctx, callerEmail, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("check enrollment: %w", err)
	}

	taken, err := s.Reviews.HasReview(ctx, courseID, callerEmail)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if taken {
		return nil, ErrAlreadyReviewed
	}

	row := req.ToModel(courseID, callerEmail)
	if err := s.Reviews.Create(ctx, row); err != nil {
		// double submit that slipped past the precheck, caught by the unique index
		if repository.IsDuplicateKey(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return row, nil
}

func (s *ReviewService) ListForCourse(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]model.ReviewModel, int64, error) {
	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrReviewCourseNotFound
		}
		return nil, 0, fmt.Errorf("load course: %w", err)
	}
	if !course.IsAdmissible() {
		return nil, 0, ErrReviewCourseNotFound
	}
	return s.Reviews.ListByCourse(ctx, courseID, limit, offset)
}
