package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kursusku_backend/internals/features/courses/courses/model"
	helper "kursusku_backend/internals/helpers"
)

const maxSlugLen = 160

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

/* =========================================================
   READS
========================================================= */

func (r *CourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CourseModel, error) {
	var m model.CourseModel
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *CourseRepository) FindBySlug(ctx context.Context, slug string) (*model.CourseModel, error) {
	var m model.CourseModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(course_slug) = LOWER(?)", strings.TrimSpace(slug)).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListCourseFilter narrows List; zero values mean "no constraint".
type ListCourseFilter struct {
	// only rows a non-owner may see: status approved or legacy NULL
	OnlyAdmissible bool

	InstructorEmail string
	Status          string
	Tag             string
	Search          string

	Limit  int
	Offset int
}

func (r *CourseRepository) List(ctx context.Context, f ListCourseFilter) ([]model.CourseModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CourseModel{})

	if f.OnlyAdmissible {
		q = q.Where("(course_status IS NULL OR course_status = ?)", model.CourseStatusApproved)
	}
	if f.InstructorEmail != "" {
		q = q.Where("course_instructor_email = ?", strings.ToLower(strings.TrimSpace(f.InstructorEmail)))
	}
	if f.Status != "" {
		q = q.Where("course_status = ?", f.Status)
	}
	if f.Tag != "" {
		q = q.Where("? = ANY(course_tags)", strings.ToLower(strings.TrimSpace(f.Tag)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(course_title) LIKE ? OR LOWER(course_slug) LIKE ?)", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.CourseModel
	if err := q.
		Order("course_created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UniqueSlug slugifies base and suffixes it until no live row collides.
func (r *CourseRepository) UniqueSlug(ctx context.Context, base string) (string, error) {
	slug := helper.Slugify(base, maxSlugLen)
	return helper.EnsureUniqueSlugCI(ctx, r.db, "courses", "course_slug", slug,
		func(q *gorm.DB) *gorm.DB { return q.Where("course_deleted_at IS NULL") },
		maxSlugLen)
}

/* =========================================================
   WRITES
========================================================= */

func (r *CourseRepository) Create(ctx context.Context, m *model.CourseModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *CourseRepository) UpdateColumns(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&model.CourseModel{}).
		Where("course_id = ?", id).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *CourseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CourseStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.CourseModel{}).
		Where("course_id = ?", id).
		Update("course_status", status)
	return res.RowsAffected, res.Error
}

func (r *CourseRepository) SetImageURL(ctx context.Context, id uuid.UUID, url *string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.CourseModel{}).
		Where("course_id = ?", id).
		Update("course_image_url", url)
	return res.RowsAffected, res.Error
}

func (r *CourseRepository) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.CourseModel{})
	return res.RowsAffected, res.Error
}

/* =========================================================
   SEAT ACCOUNTING
   The capacity pair (course_seats, course_enrollment_count) is written
   only here, so the seats >= 0 floor holds without a transaction.
========================================================= */

// ClaimSeat decrements one seat iff at least one remains. The WHERE guard
// plus the single UPDATE make the check-and-decrement atomic; a false return
// with no error means the course filled up between precheck and claim.
func (r *CourseRepository) ClaimSeat(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.CourseModel{}).
		Where("course_id = ? AND course_deleted_at IS NULL", id).
		Where("course_seats > 0").
		Updates(map[string]any{
			"course_seats":            gorm.Expr("course_seats - 1"),
			"course_enrollment_count": gorm.Expr("course_enrollment_count + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseSeat gives one seat back after an unenroll. The count clamps at
// zero so a stray release can never push it negative.
func (r *CourseRepository) ReleaseSeat(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.CourseModel{}).
		Where("course_id = ? AND course_deleted_at IS NULL", id).
		Updates(map[string]any{
			"course_seats":            gorm.Expr("course_seats + 1"),
			"course_enrollment_count": gorm.Expr("GREATEST(course_enrollment_count - 1, 0)"),
		})
	return res.RowsAffected, res.Error
}

// IncrementSeats applies an admin capacity correction; the floor stays 0.
func (r *CourseRepository) IncrementSeats(ctx context.Context, id uuid.UUID, delta int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.CourseModel{}).
		Where("course_id = ? AND course_deleted_at IS NULL", id).
		Update("course_seats", gorm.Expr("GREATEST(course_seats + ?, 0)", delta))
	return res.RowsAffected, res.Error
}
