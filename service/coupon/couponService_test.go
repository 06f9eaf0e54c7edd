package couponsvc

import (
	"context"
	"testing"
	"time"

	couponrepo "github.com/Sujallukhi04/Leaseo-sub000/repository/coupon"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	byCodeFn     func(ctx context.Context, code string) (*model.Coupon, error)
	consumeCalls int
	consumeErr   error
}

func (m *repoMock) ByCode(ctx context.Context, q database.Querier, code string) (*model.Coupon, error) {
	return m.byCodeFn(ctx, code)
}

func (m *repoMock) ByCodeForUpdate(ctx context.Context, q database.Querier, code string) (*model.Coupon, error) {
	return m.byCodeFn(ctx, code)
}

func (m *repoMock) ConsumeUse(ctx context.Context, q database.Querier, code string) error {
	m.consumeCalls++
	return m.consumeErr
}

type counterMock struct {
	n int64
}

func (m *counterMock) CountByCustomer(ctx context.Context, q database.Querier, customerID int64) (int64, error) {
	return m.n, nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(m *repoMock, orders *counterMock) *service {
	s := New(nil, m, orders).(*service)
	s.now = func() time.Time { return testNow }
	return s
}

func coupon(mut func(c *model.Coupon)) *model.Coupon {
	c := &model.Coupon{
		ID:            1,
		Code:          "SAVE10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     testNow.AddDate(0, -1, 0),
		ValidUntil:    testNow.AddDate(0, 1, 0),
		IsActive:      true,
		Category:      model.CouponStandard,
	}
	if mut != nil {
		mut(c)
	}
	return c
}

func returning(c *model.Coupon) *repoMock {
	return &repoMock{byCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
		return c, nil
	}}
}

func TestValidate_NotFound(t *testing.T) {
	s := newTestService(returning(nil), &counterMock{})
	_, err := s.Validate(context.Background(), "NOPE", 1000, 7)
	require.Error(t, err)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestValidate_Inactive(t *testing.T) {
	s := newTestService(returning(coupon(func(c *model.Coupon) { c.IsActive = false })), &counterMock{})
	_, err := s.Validate(context.Background(), "SAVE10", 1000, 7)
	require.Equal(t, ErrInactive, Code(err))
}

func TestValidate_Window(t *testing.T) {
	s := newTestService(returning(coupon(func(c *model.Coupon) { c.ValidFrom = testNow.Add(time.Hour) })), &counterMock{})
	_, err := s.Validate(context.Background(), "SAVE10", 1000, 7)
	require.Equal(t, ErrNotStarted, Code(err))

	s = newTestService(returning(coupon(func(c *model.Coupon) { c.ValidUntil = testNow.Add(-time.Hour) })), &counterMock{})
	_, err = s.Validate(context.Background(), "SAVE10", 1000, 7)
	require.Equal(t, ErrExpired, Code(err))
}

// usage_limit=1, used_count=1 must reject no matter what else is set.
func TestValidate_UsageBoundary(t *testing.T) {
	limit := int64(1)
	s := newTestService(returning(coupon(func(c *model.Coupon) {
		c.UsageLimit = &limit
		c.UsedCount = 1
	})), &counterMock{})
	_, err := s.Validate(context.Background(), "SAVE10", 1000000, 7)
	require.Equal(t, ErrExhausted, Code(err))
}

func TestValidate_MinOrder(t *testing.T) {
	minOrder := 5000.0
	s := newTestService(returning(coupon(func(c *model.Coupon) { c.MinOrderValue = &minOrder })), &counterMock{})
	_, err := s.Validate(context.Background(), "SAVE10", 4999, 7)
	require.Equal(t, ErrMinOrder, Code(err))

	d, err := s.Validate(context.Background(), "SAVE10", 5000, 7)
	require.NoError(t, err)
	require.Equal(t, 500.0, d)
}

func TestValidate_AllowedUser(t *testing.T) {
	allowed := int64(42)
	s := newTestService(returning(coupon(func(c *model.Coupon) { c.AllowedUserID = &allowed })), &counterMock{})

	_, err := s.Validate(context.Background(), "SAVE10", 1000, 7)
	require.Equal(t, ErrNotEligible, Code(err))

	_, err = s.Validate(context.Background(), "SAVE10", 1000, 42)
	require.NoError(t, err)
}

func TestValidate_FirstOrderRewardRequiresNoHistory(t *testing.T) {
	c := coupon(func(c *model.Coupon) { c.Category = model.CouponFirstOrderReward })

	s := newTestService(returning(c), &counterMock{n: 1})
	_, err := s.Validate(context.Background(), "SAVE10", 1000, 7)
	require.Equal(t, ErrNotEligible, Code(err))

	s = newTestService(returning(c), &counterMock{n: 0})
	_, err = s.Validate(context.Background(), "SAVE10", 1000, 7)
	require.NoError(t, err)
}

// percentage 10%, max_discount=500, subtotal=10000 -> capped at 500.
func TestValidate_PercentageCap(t *testing.T) {
	maxDisc := 500.0
	s := newTestService(returning(coupon(func(c *model.Coupon) { c.MaxDiscount = &maxDisc })), &counterMock{})
	d, err := s.Validate(context.Background(), "SAVE10", 10000, 7)
	require.NoError(t, err)
	require.Equal(t, 500.0, d)
}

func TestValidate_FlatClampedToSubtotal(t *testing.T) {
	s := newTestService(returning(coupon(func(c *model.Coupon) {
		c.DiscountType = model.DiscountFlat
		c.DiscountValue = 800
	})), &counterMock{})
	d, err := s.Validate(context.Background(), "SAVE10", 500, 7)
	require.NoError(t, err)
	require.Equal(t, 500.0, d)
}

func TestValidate_IsSideEffectFree(t *testing.T) {
	m := returning(coupon(nil))
	s := newTestService(m, &counterMock{})
	_, err := s.Validate(context.Background(), "SAVE10", 1000, 7)
	require.NoError(t, err)
	require.Zero(t, m.consumeCalls)
}

func TestRedeem_ConsumesOnce(t *testing.T) {
	m := returning(coupon(nil))
	s := newTestService(m, &counterMock{})
	d, err := s.Redeem(context.Background(), nil, "SAVE10", 1000, 7)
	require.NoError(t, err)
	require.Equal(t, 100.0, d)
	require.Equal(t, 1, m.consumeCalls)
}

func TestRedeem_ExhaustedAtConsume(t *testing.T) {
	m := returning(coupon(nil))
	m.consumeErr = couponrepo.ErrUsageExhausted
	s := newTestService(m, &counterMock{})
	_, err := s.Redeem(context.Background(), nil, "SAVE10", 1000, 7)
	require.Equal(t, ErrExhausted, Code(err))
}
