package dto

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"kursusku_backend/internals/features/payments/checkouts/model"
)

/* =========================================================
   REQUEST: CREATE CHECKOUT
========================================================= */

type CreateCheckoutRequest struct {
	CheckoutCourseID string `json:"course_id" form:"course_id"`
}

func (r *CreateCheckoutRequest) Normalize() {
	r.CheckoutCourseID = strings.TrimSpace(r.CheckoutCourseID)
}

func (r *CreateCheckoutRequest) Validate() error {
	if r.CheckoutCourseID == "" {
		return errors.New("course_id required")
	}
	if _, err := uuid.Parse(r.CheckoutCourseID); err != nil {
		return errors.New("course_id must be a valid uuid")
	}
	return nil
}

func (r *CreateCheckoutRequest) CourseID() uuid.UUID {
	id, _ := uuid.Parse(r.CheckoutCourseID)
	return id
}

/* =========================================================
   RESPONSE
========================================================= */

type CheckoutResponse struct {
	CheckoutID          uuid.UUID `json:"checkout_id"`
	CheckoutOrderID     string    `json:"order_id"`
	CheckoutCourseID    uuid.UUID `json:"course_id"`
	CheckoutCourseTitle string    `json:"course_title"`
	CheckoutAmountIDR   int64     `json:"amount_idr"`
	CheckoutStatus      string    `json:"status"`
	SnapToken           *string   `json:"snap_token,omitempty"`
	RedirectURL         *string   `json:"redirect_url,omitempty"`
}

func FromModel(m *model.CheckoutModel) CheckoutResponse {
	return CheckoutResponse{
		CheckoutID:          m.CheckoutID,
		CheckoutOrderID:     m.CheckoutOrderID,
		CheckoutCourseID:    m.CheckoutCourseID,
		CheckoutCourseTitle: m.CheckoutCourseTitleCache,
		CheckoutAmountIDR:   m.CheckoutAmountIDR,
		CheckoutStatus:      string(m.CheckoutStatus),
		SnapToken:           m.CheckoutSnapToken,
		RedirectURL:         m.CheckoutRedirectURL,
	}
}
