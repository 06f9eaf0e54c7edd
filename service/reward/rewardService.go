package rewardsvc

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"
)

type ErrCode string

const (
	ErrUserNotFound  ErrCode = "USER_NOT_FOUND"
	ErrCodeExhausted ErrCode = "CODE_GENERATION_EXHAUSTED"
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

// codeAlphabet drops visually ambiguous characters (I, L, O, 0, 1).
const (
	codeAlphabet     = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codePrefix       = "LSO-"
	codeLength       = 10
	maxCodeAttempts  = 5
	validityDays     = 30
	discountPercent  = 10
	discountCapValue = 500
)

type UserRepo interface {
	ForUpdate(ctx context.Context, q database.Querier, id int64) (*model.User, error)
	SetRewardGranted(ctx context.Context, q database.Querier, id int64, couponCode string) error
	InsertNotification(ctx context.Context, q database.Querier, n *model.Notification) (int64, error)
}

type CouponRepo interface {
	CodeExists(ctx context.Context, q database.Querier, code string) (bool, error)
	Insert(ctx context.Context, q database.Querier, c *model.Coupon) (int64, error)
}

type OrderCounter interface {
	CountByCustomer(ctx context.Context, q database.Querier, customerID int64) (int64, error)
}

type Notifier interface {
	SendRewardGranted(ctx context.Context, userID int64, couponCode string) error
}

type TxRunner interface {
	RunTx(ctx context.Context, opts *sql.TxOptions, fn func(q database.Querier) error) error
}

// Result reports whether a coupon was granted by this call. Granted=false
// means the reward already existed or the customer has order history.
type Result struct {
	Granted    bool   `json:"granted"`
	CouponCode string `json:"coupon_code,omitempty"`
}

type Service interface {
	// Grant issues the one-time first-order coupon. Idempotent: repeated
	// calls for the same customer create at most one coupon.
	Grant(ctx context.Context, customerID int64) (*Result, error)
}

type service struct {
	txr      TxRunner
	users    UserRepo
	coupons  CouponRepo
	orders   OrderCounter
	notifier Notifier
	now      func() time.Time
}

func New(txr TxRunner, users UserRepo, coupons CouponRepo, orders OrderCounter, notifier Notifier) Service {
	return &service{
		txr:      txr,
		users:    users,
		coupons:  coupons,
		orders:   orders,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) Grant(ctx context.Context, customerID int64) (*Result, error) {
	var res *Result
	err := s.txr.RunTx(ctx, nil, func(q database.Querier) error {
		u, err := s.users.ForUpdate(ctx, q, customerID)
		if err != nil {
			return err
		}
		if u == nil {
			return makeErr(ErrUserNotFound)
		}
		if u.FirstOrderRewardGiven {
			code := ""
			if u.LastRewardCouponCode != nil {
				code = *u.LastRewardCouponCode
			}
			res = &Result{Granted: false, CouponCode: code}
			return nil
		}
		n, err := s.orders.CountByCustomer(ctx, q, customerID)
		if err != nil {
			return err
		}
		if n > 0 {
			res = &Result{Granted: false}
			return nil
		}

		code, err := s.uniqueCode(ctx, q)
		if err != nil {
			return err
		}

		// Coupon, notification and user flag commit together or not at all.
		now := s.now().UTC()
		limit := int64(1)
		maxDisc := float64(discountCapValue)
		c := &model.Coupon{
			Code:          code,
			DiscountType:  model.DiscountPercentage,
			DiscountValue: discountPercent,
			ValidFrom:     now,
			ValidUntil:    now.AddDate(0, 0, validityDays),
			UsageLimit:    &limit,
			MaxDiscount:   &maxDisc,
			AllowedUserID: &customerID,
			IsActive:      true,
			Category:      model.CouponFirstOrderReward,
		}
		if _, err := s.coupons.Insert(ctx, q, c); err != nil {
			return err
		}
		msg := fmt.Sprintf("Welcome! Use coupon %s for %d%% off your first rental order.", code, discountPercent)
		if _, err := s.users.InsertNotification(ctx, q, &model.Notification{
			UserID:     customerID,
			Kind:       model.NotificationRewardCoupon,
			Message:    msg,
			CouponCode: &code,
		}); err != nil {
			return err
		}
		if err := s.users.SetRewardGranted(ctx, q, customerID, code); err != nil {
			return err
		}
		res = &Result{Granted: true, CouponCode: code}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Granted && s.notifier != nil {
		// Best effort, after commit. A webhook failure never unwinds a grant.
		if err := s.notifier.SendRewardGranted(ctx, customerID, res.CouponCode); err != nil {
			slog.Warn("reward webhook failed", "user_id", customerID, "err", err)
		}
	}
	return res, nil
}

func (s *service) uniqueCode(ctx context.Context, q database.Querier) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		exists, err := s.coupons.CodeExists(ctx, q, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", makeErr(ErrCodeExhausted)
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return codePrefix + string(out), nil
}
