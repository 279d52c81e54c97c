package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"kursusku_backend/internals/features/courses/reviews/model"
)

var validate = validator.New()

type CreateReviewRequest struct {
	ReviewRating int     `json:"review_rating" validate:"required,min=1,max=5"`
	ReviewText   *string `json:"review_text,omitempty" validate:"omitempty,max=4000"`
}

func (r *CreateReviewRequest) Normalize() {
	if r.ReviewText != nil {
		s := strings.TrimSpace(*r.ReviewText)
		if s == "" {
			r.ReviewText = nil
		} else {
			r.ReviewText = &s
		}
	}
}

func (r *CreateReviewRequest) Validate() error {
	return validate.Struct(r)
}

func (r *CreateReviewRequest) ToModel(courseID uuid.UUID, userEmail string) *model.ReviewModel {
	return &model.ReviewModel{
		ReviewCourseID:  courseID,
		ReviewUserEmail: strings.ToLower(strings.TrimSpace(userEmail)),
		ReviewRating:    r.ReviewRating,
		ReviewText:      r.ReviewText,
	}
}
