package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kursusku_backend/internals/features/users/users/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

/* =========================================================
   READS
========================================================= */

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	var m model.UserModel
	if err := r.db.WithContext(ctx).
		Where("user_email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetRoleByEmail reads only the role column; callers translate
// gorm.ErrRecordNotFound into the default role.
func (r *UserRepository) GetRoleByEmail(ctx context.Context, email string) (string, error) {
	var role string
	err := r.db.WithContext(ctx).Model(&model.UserModel{}).
		Select("user_role").
		Where("user_email = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&role).Error
	if err != nil {
		return "", err
	}
	return role, nil
}

type ListUserFilter struct {
	Role   string
	Search string
	Limit  int
	Offset int
}

func (r *UserRepository) List(ctx context.Context, f ListUserFilter) ([]model.UserModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.UserModel{})

	if f.Role != "" {
		q = q.Where("user_role = ?", strings.ToLower(f.Role))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(user_email) LIKE ? OR LOWER(COALESCE(user_name, '')) LIKE ?)", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.UserModel
	if err := q.
		Order("user_created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

/* =========================================================
   WRITES
========================================================= */

// EnsureUser inserts the row on first sign-in; on conflict it backfills the
// Google subject and display name without clobbering values already set.
func (r *UserRepository) EnsureUser(ctx context.Context, email string, googleSub, name *string) (*model.UserModel, error) {
	// UserRole stays zero so the column default ('student') applies on insert
	m := model.UserModel{
		UserEmail:     strings.ToLower(strings.TrimSpace(email)),
		UserGoogleSub: googleSub,
		UserName:      name,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_email"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"user_google_sub": gorm.Expr(`COALESCE("users"."user_google_sub", EXCLUDED."user_google_sub")`),
				"user_name":       gorm.Expr(`COALESCE("users"."user_name", EXCLUDED."user_name")`),
			}),
		}).
		Create(&m).Error
	if err != nil {
		return nil, err
	}

	return r.FindByEmail(ctx, email)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, email string, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("user_email = ?", strings.ToLower(strings.TrimSpace(email))).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *UserRepository) SetRoleByEmail(ctx context.Context, email, role string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("user_email = ?", strings.ToLower(strings.TrimSpace(email))).
		Update("user_role", strings.ToLower(role))
	return res.RowsAffected, res.Error
}
