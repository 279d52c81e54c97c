package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"kursusku_backend/internals/features/payments/checkouts/model"
)

type CheckoutRepository struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

func (r *CheckoutRepository) Create(ctx context.Context, m *model.CheckoutModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *CheckoutRepository) FindByOrderID(ctx context.Context, orderID string) (*model.CheckoutModel, error) {
	var m model.CheckoutModel
	if err := r.db.WithContext(ctx).
		Where("checkout_order_id = ?", strings.TrimSpace(orderID)).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *CheckoutRepository) ListByUser(ctx context.Context, userEmail string, limit, offset int) ([]model.CheckoutModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CheckoutModel{}).
		Where("checkout_user_email = ?", strings.ToLower(userEmail))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.CheckoutModel
	if err := q.
		Order("checkout_created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// SetStatus moves a checkout forward; the WHERE keeps terminal rows terminal.
func (r *CheckoutRepository) SetStatus(ctx context.Context, orderID string, from, to model.CheckoutStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.CheckoutModel{}).
		Where("checkout_order_id = ? AND checkout_status = ?", strings.TrimSpace(orderID), from).
		Update("checkout_status", to)
	return res.RowsAffected, res.Error
}

func (r *CheckoutRepository) SetSnap(ctx context.Context, orderID string, token, redirectURL *string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.CheckoutModel{}).
		Where("checkout_order_id = ?", strings.TrimSpace(orderID)).
		Updates(map[string]any{
			"checkout_snap_token":   token,
			"checkout_redirect_url": redirectURL,
		})
	return res.RowsAffected, res.Error
}
