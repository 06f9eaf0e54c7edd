package couponsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	couponrepo "github.com/Sujallukhi04/Leaseo-sub000/repository/coupon"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"
)

type ErrCode string

const (
	ErrNotFound    ErrCode = "COUPON_NOT_FOUND"
	ErrInactive    ErrCode = "COUPON_INACTIVE"
	ErrNotStarted  ErrCode = "COUPON_NOT_STARTED"
	ErrExpired     ErrCode = "COUPON_EXPIRED"
	ErrExhausted   ErrCode = "COUPON_EXHAUSTED"
	ErrMinOrder    ErrCode = "MIN_ORDER_NOT_MET"
	ErrNotEligible ErrCode = "COUPON_NOT_ELIGIBLE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	ByCode(ctx context.Context, q database.Querier, code string) (*model.Coupon, error)
	ByCodeForUpdate(ctx context.Context, q database.Querier, code string) (*model.Coupon, error)
	ConsumeUse(ctx context.Context, q database.Querier, code string) error
}

type OrderCounter interface {
	CountByCustomer(ctx context.Context, q database.Querier, customerID int64) (int64, error)
}

type Service interface {
	// Validate previews a coupon against a subtotal. Side-effect free:
	// used_count is untouched until a confirmation commits.
	Validate(ctx context.Context, code string, subtotal float64, customerID int64) (float64, error)

	// Redeem re-validates inside the caller's transaction and consumes one
	// use. Called only by the order confirmation path.
	Redeem(ctx context.Context, q database.Querier, code string, subtotal float64, customerID int64) (float64, error)
}

type service struct {
	db     *sql.DB
	r      Repo
	orders OrderCounter
	now    func() time.Time
}

func New(db *sql.DB, r Repo, orders OrderCounter) Service {
	return &service{db: db, r: r, orders: orders, now: time.Now}
}

func (s *service) Validate(ctx context.Context, code string, subtotal float64, customerID int64) (float64, error) {
	c, err := s.r.ByCode(ctx, s.db, code)
	if err != nil {
		return 0, err
	}
	return s.evaluate(ctx, s.db, c, subtotal, customerID)
}

func (s *service) Redeem(ctx context.Context, q database.Querier, code string, subtotal float64, customerID int64) (float64, error) {
	c, err := s.r.ByCodeForUpdate(ctx, q, code)
	if err != nil {
		return 0, err
	}
	discount, err := s.evaluate(ctx, q, c, subtotal, customerID)
	if err != nil {
		return 0, err
	}
	if err := s.r.ConsumeUse(ctx, q, code); err != nil {
		if errors.Is(err, couponrepo.ErrUsageExhausted) {
			return 0, makeErr(ErrExhausted)
		}
		return 0, err
	}
	return discount, nil
}

// evaluate applies the eligibility checks in order, short-circuiting on the
// first failure, then computes the discount.
func (s *service) evaluate(ctx context.Context, q database.Querier, c *model.Coupon, subtotal float64, customerID int64) (float64, error) {
	if c == nil {
		return 0, makeErr(ErrNotFound)
	}
	if err := checkEligibility(c, subtotal, customerID, s.now()); err != nil {
		return 0, err
	}
	if c.Category == model.CouponFirstOrderReward {
		n, err := s.orders.CountByCustomer(ctx, q, customerID)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			return 0, makeErr(ErrNotEligible)
		}
	}
	return Discount(c, subtotal), nil
}

func checkEligibility(c *model.Coupon, subtotal float64, customerID int64, now time.Time) error {
	if !c.IsActive {
		return makeErr(ErrInactive)
	}
	if now.Before(c.ValidFrom) {
		return makeErr(ErrNotStarted)
	}
	if now.After(c.ValidUntil) {
		return makeErr(ErrExpired)
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return makeErr(ErrExhausted)
	}
	if c.MinOrderValue != nil && subtotal < *c.MinOrderValue {
		return makeErr(ErrMinOrder)
	}
	if c.AllowedUserID != nil && *c.AllowedUserID != customerID {
		return makeErr(ErrNotEligible)
	}
	return nil
}

// Discount computes the coupon's discount against a subtotal.
// PERCENTAGE clamps to MaxDiscount when set; FLAT never exceeds the subtotal.
func Discount(c *model.Coupon, subtotal float64) float64 {
	switch c.DiscountType {
	case model.DiscountPercentage:
		d := subtotal * c.DiscountValue / 100
		if c.MaxDiscount != nil && d > *c.MaxDiscount {
			d = *c.MaxDiscount
		}
		return d
	case model.DiscountFlat:
		if c.DiscountValue > subtotal {
			return subtotal
		}
		return c.DiscountValue
	}
	return 0
}
