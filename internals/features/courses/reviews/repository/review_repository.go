package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kursusku_backend/internals/features/courses/reviews/model"
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

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, m *model.ReviewModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *ReviewRepository) ListByCourse(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]model.ReviewModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ReviewModel{}).
		Where("review_course_id = ?", courseID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.ReviewModel
	if err := q.
		Order("review_created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *ReviewRepository) HasReview(ctx context.Context, courseID uuid.UUID, userEmail string) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).
		Raw(`SELECT EXISTS(SELECT 1 FROM reviews WHERE review_course_id = ? AND review_user_email = ? AND review_deleted_at IS NULL)`,
			courseID, strings.ToLower(userEmail)).
		Scan(&exists).Error
	return exists, err
}

func (r *ReviewRepository) DeleteAllForCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("review_course_id = ?", courseID).
		Delete(&model.ReviewModel{})
	return res.RowsAffected, res.Error
}
