package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kursusku_backend/internals/features/courses/enrollments/model"
)

// IsDuplicateKey reports a Postgres unique violation (SQLSTATE 23505).
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "23505")
}

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

/* =========================================================
   READS
========================================================= */

func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userEmail string, courseID uuid.UUID) (*model.EnrollmentModel, error) {
	var m model.EnrollmentModel
	if err := r.db.WithContext(ctx).
		Where("enrollment_user_email = ? AND enrollment_course_id = ?", strings.ToLower(userEmail), courseID).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *EnrollmentRepository) CountByUser(ctx context.Context, userEmail string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.EnrollmentModel{}).
		Where("enrollment_user_email = ?", strings.ToLower(userEmail)).
		Count(&cnt).Error
	return cnt, err
}

func (r *EnrollmentRepository) ListByUser(ctx context.Context, userEmail string, limit, offset int) ([]model.EnrollmentModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.EnrollmentModel{}).
		Where("enrollment_user_email = ?", strings.ToLower(userEmail))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.EnrollmentModel
	if err := q.
		Order("enrollment_enrolled_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByCourse backs the instructor roster view.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]model.EnrollmentModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.EnrollmentModel{}).
		Where("enrollment_course_id = ?", courseID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.EnrollmentModel
	if err := q.
		Order("enrollment_enrolled_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

/* =========================================================
   WRITES (all hard deletes; the table has no deleted_at)
========================================================= */

func (r *EnrollmentRepository) Create(ctx context.Context, m *model.EnrollmentModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *EnrollmentRepository) DeleteByID(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("enrollment_id = ?", id).
		Delete(&model.EnrollmentModel{})
	return res.RowsAffected, res.Error
}

func (r *EnrollmentRepository) DeleteByUserAndCourse(ctx context.Context, userEmail string, courseID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("enrollment_user_email = ? AND enrollment_course_id = ?", strings.ToLower(userEmail), courseID).
		Delete(&model.EnrollmentModel{})
	return res.RowsAffected, res.Error
}

func (r *EnrollmentRepository) DeleteAllForCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("enrollment_course_id = ?", courseID).
		Delete(&model.EnrollmentModel{})
	return res.RowsAffected, res.Error
}
