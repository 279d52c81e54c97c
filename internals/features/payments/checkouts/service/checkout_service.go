package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	courseModel "kursusku_backend/internals/features/courses/courses/model"
	"kursusku_backend/internals/features/payments/checkouts/model"
)

var (
	ErrCheckoutCourseNotFound = errors.New("course not found")
	ErrCourseNotPurchasable   = errors.New("course has no price; enroll directly")
	ErrCheckoutNotFound       = errors.New("checkout not found")
)

// Interfaces so tests can swap in fakes.
type CheckoutStore interface {
	Create(ctx context.Context, m *model.CheckoutModel) error
	FindByOrderID(ctx context.Context, orderID string) (*model.CheckoutModel, error)
	ListByUser(ctx context.Context, userEmail string, limit, offset int) ([]model.CheckoutModel, int64, error)
	SetStatus(ctx context.Context, orderID string, from, to model.CheckoutStatus) (int64, error)
	SetSnap(ctx context.Context, orderID string, token, redirectURL *string) (int64, error)
}

type CourseGetter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*courseModel.CourseModel, error)
}

// snapTokener is the gateway call; tests replace it to avoid network I/O.
type snapTokener func(m *model.CheckoutModel, customerEmail string) (string, string, error)

type CheckoutService struct {
	Checkouts CheckoutStore
	Courses   CourseGetter

	newSnapToken snapTokener
}

func NewCheckoutService(checkouts CheckoutStore, courses CourseGetter) *CheckoutService {
	return &CheckoutService{
		Checkouts:    checkouts,
		Courses:      courses,
		newSnapToken: GenerateSnapToken,
	}
}

// WithSnapTokener overrides the gateway call; test hook.
func (s *CheckoutService) WithSnapTokener(fn snapTokener) *CheckoutService {
	s.newSnapToken = fn
	return s
}

// Create opens a pending checkout and asks the gateway for a snap token.
// Paying does not enroll by itself; admission stays its own step.
func (s *CheckoutService) Create(ctx context.Context, callerEmail string, courseID uuid.UUID) (*model.CheckoutModel, error) {
	callerEmail = strings.ToLower(strings.TrimSpace(callerEmail))

	course, err := s.Courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckoutCourseNotFound
		}
		return nil, fmt.Errorf("load course: %w", err)
	}
	if !course.IsAdmissible() {
		return nil, ErrCheckoutCourseNotFound
	}
	if course.CoursePriceIDR <= 0 {
		return nil, ErrCourseNotPurchasable
	}

	row := &model.CheckoutModel{
		CheckoutOrderID:          "KURSUS-" + uuid.NewString(),
		CheckoutUserEmail:        callerEmail,
		CheckoutCourseID:         course.CourseID,
		CheckoutCourseTitleCache: course.CourseTitle,
		CheckoutAmountIDR:        course.CoursePriceIDR,
		CheckoutStatus:           model.CheckoutStatusPending,
	}
	if err := s.Checkouts.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("insert checkout: %w", err)
	}

	token, redirect, err := s.newSnapToken(row, callerEmail)
	if err != nil {
		// row stays pending without a token; the client can retry checkout
		log.Printf("[CHECKOUT] ERROR snap token order_id=%s err=%v", row.CheckoutOrderID, err)
		return nil, fmt.Errorf("create snap transaction: %w", err)
	}
	if _, err := s.Checkouts.SetSnap(ctx, row.CheckoutOrderID, &token, &redirect); err != nil {
		return nil, fmt.Errorf("store snap token: %w", err)
	}
	row.CheckoutSnapToken = &token
	row.CheckoutRedirectURL = &redirect

	log.Printf("[CHECKOUT] SUCCESS create order_id=%s course_id=%s amount=%d", row.CheckoutOrderID, courseID, row.CheckoutAmountIDR)
	return row, nil
}

func (s *CheckoutService) ListMine(ctx context.Context, callerEmail string, limit, offset int) ([]model.CheckoutModel, int64, error) {
	return s.Checkouts.ListByUser(ctx, strings.ToLower(strings.TrimSpace(callerEmail)), limit, offset)
}

// ApplyGatewayStatus moves a checkout to the outcome the payment gateway
// reported for its order. Only pending rows move; repeats and late reports
// on settled rows are no-ops. The transport that delivers gateway outcomes
// lives outside this module; it calls this with already-verified values.
func (s *CheckoutService) ApplyGatewayStatus(ctx context.Context, orderID, transactionStatus, fraudStatus string) (*model.CheckoutModel, error) {
	if _, err := s.Checkouts.FindByOrderID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckoutNotFound
		}
		return nil, fmt.Errorf("load checkout: %w", err)
	}

	var target model.CheckoutStatus
	switch transactionStatus {
	case "settlement":
		target = model.CheckoutStatusPaid
	case "capture":
		if fraudStatus == "challenge" {
			return s.Checkouts.FindByOrderID(ctx, orderID)
		}
		target = model.CheckoutStatusPaid
	case "expire":
		target = model.CheckoutStatusExpired
	case "cancel", "deny", "failure":
		target = model.CheckoutStatusCanceled
	default:
		// pending and friends: nothing to move
		return s.Checkouts.FindByOrderID(ctx, orderID)
	}

	rows, err := s.Checkouts.SetStatus(ctx, orderID, model.CheckoutStatusPending, target)
	if err != nil {
		return nil, fmt.Errorf("update checkout status: %w", err)
	}
	if rows > 0 {
		log.Printf("[CHECKOUT] SUCCESS status order_id=%s -> %s", orderID, target)
	}
	return s.Checkouts.FindByOrderID(ctx, orderID)
}
