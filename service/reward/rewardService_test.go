package rewardsvc_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	rewardsvc "github.com/Sujallukhi04/Leaseo-sub000/service/reward"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"

	"github.com/stretchr/testify/require"
)

type txMock struct{}

func (txMock) RunTx(ctx context.Context, opts *sql.TxOptions, fn func(q database.Querier) error) error {
	return fn(nil)
}

type userMock struct {
	users         map[int64]*model.User
	notifications []model.Notification
}

func (m *userMock) ForUpdate(ctx context.Context, q database.Querier, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (m *userMock) SetRewardGranted(ctx context.Context, q database.Querier, id int64, couponCode string) error {
	u := m.users[id]
	u.FirstOrderRewardGiven = true
	u.LastRewardCouponCode = &couponCode
	return nil
}

func (m *userMock) InsertNotification(ctx context.Context, q database.Querier, n *model.Notification) (int64, error) {
	n.ID = int64(len(m.notifications) + 1)
	m.notifications = append(m.notifications, *n)
	return n.ID, nil
}

type couponMock struct {
	existsFn func(code string) (bool, error)
	inserted []model.Coupon
}

func (m *couponMock) CodeExists(ctx context.Context, q database.Querier, code string) (bool, error) {
	if m.existsFn == nil {
		return false, nil
	}
	return m.existsFn(code)
}

func (m *couponMock) Insert(ctx context.Context, q database.Querier, c *model.Coupon) (int64, error) {
	c.ID = int64(len(m.inserted) + 1)
	m.inserted = append(m.inserted, *c)
	return c.ID, nil
}

type counterMock struct {
	n int64
}

func (m *counterMock) CountByCustomer(ctx context.Context, q database.Querier, customerID int64) (int64, error) {
	return m.n, nil
}

type notifierMock struct {
	calls int
	codes []string
	err   error
}

func (m *notifierMock) SendRewardGranted(ctx context.Context, userID int64, couponCode string) error {
	m.calls++
	m.codes = append(m.codes, couponCode)
	return m.err
}

func newFixture() (*userMock, *couponMock, *counterMock, *notifierMock) {
	users := &userMock{users: map[int64]*model.User{
		7: {ID: 7, Role: model.RoleCustomer},
	}}
	return users, &couponMock{}, &counterMock{}, &notifierMock{}
}

func TestGrant_IssuesCouponNotificationAndFlag(t *testing.T) {
	users, coupons, orders, notifier := newFixture()
	s := rewardsvc.New(txMock{}, users, coupons, orders, notifier)

	res, err := s.Grant(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, res.Granted)
	require.True(t, strings.HasPrefix(res.CouponCode, "LSO-"))
	require.Len(t, res.CouponCode, len("LSO-")+10)

	require.Len(t, coupons.inserted, 1)
	c := coupons.inserted[0]
	require.Equal(t, res.CouponCode, c.Code)
	require.Equal(t, model.CouponFirstOrderReward, c.Category)
	require.Equal(t, model.DiscountPercentage, c.DiscountType)
	require.Equal(t, 10.0, c.DiscountValue)
	require.NotNil(t, c.UsageLimit)
	require.Equal(t, int64(1), *c.UsageLimit)
	require.NotNil(t, c.MaxDiscount)
	require.Equal(t, 500.0, *c.MaxDiscount)
	require.NotNil(t, c.AllowedUserID)
	require.Equal(t, int64(7), *c.AllowedUserID)
	require.WithinDuration(t, c.ValidFrom.AddDate(0, 0, 30), c.ValidUntil, time.Second)

	require.Len(t, users.notifications, 1)
	require.Equal(t, model.NotificationRewardCoupon, users.notifications[0].Kind)
	require.Contains(t, users.notifications[0].Message, res.CouponCode)

	require.True(t, users.users[7].FirstOrderRewardGiven)
	require.Equal(t, 1, notifier.calls)
}

func TestGrant_Idempotent(t *testing.T) {
	users, coupons, orders, notifier := newFixture()
	s := rewardsvc.New(txMock{}, users, coupons, orders, notifier)
	ctx := context.Background()

	first, err := s.Grant(ctx, 7)
	require.NoError(t, err)
	require.True(t, first.Granted)

	second, err := s.Grant(ctx, 7)
	require.NoError(t, err)
	require.False(t, second.Granted)
	require.Equal(t, first.CouponCode, second.CouponCode)

	// still exactly one coupon, one notification, one webhook
	require.Len(t, coupons.inserted, 1)
	require.Len(t, users.notifications, 1)
	require.Equal(t, 1, notifier.calls)
}

func TestGrant_SkipsCustomersWithOrderHistory(t *testing.T) {
	users, coupons, orders, notifier := newFixture()
	orders.n = 2
	s := rewardsvc.New(txMock{}, users, coupons, orders, notifier)

	res, err := s.Grant(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, res.Granted)
	require.Empty(t, res.CouponCode)
	require.Empty(t, coupons.inserted)
	require.Empty(t, users.notifications)
	require.Zero(t, notifier.calls)
}

func TestGrant_UserNotFound(t *testing.T) {
	users, coupons, orders, notifier := newFixture()
	s := rewardsvc.New(txMock{}, users, coupons, orders, notifier)

	_, err := s.Grant(context.Background(), 99)
	require.Equal(t, rewardsvc.ErrUserNotFound, rewardsvc.Code(err))
}

func TestGrant_CodeGenerationExhausted(t *testing.T) {
	users, coupons, orders, notifier := newFixture()
	attempts := 0
	coupons.existsFn = func(code string) (bool, error) {
		attempts++
		return true, nil
	}
	s := rewardsvc.New(txMock{}, users, coupons, orders, notifier)

	_, err := s.Grant(context.Background(), 7)
	require.Equal(t, rewardsvc.ErrCodeExhausted, rewardsvc.Code(err))
	require.Equal(t, 5, attempts)
	require.Empty(t, coupons.inserted)
}

func TestGrant_RetriesCollidingCodes(t *testing.T) {
	users, coupons, orders, notifier := newFixture()
	collisions := 2
	coupons.existsFn = func(code string) (bool, error) {
		if collisions > 0 {
			collisions--
			return true, nil
		}
		return false, nil
	}
	s := rewardsvc.New(txMock{}, users, coupons, orders, notifier)

	res, err := s.Grant(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, res.Granted)
	require.Len(t, coupons.inserted, 1)
}

func TestGrant_WebhookFailureDoesNotUnwind(t *testing.T) {
	users, coupons, orders, notifier := newFixture()
	notifier.err = errors.New("webhook down")
	s := rewardsvc.New(txMock{}, users, coupons, orders, notifier)

	res, err := s.Grant(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, res.Granted)
	require.True(t, users.users[7].FirstOrderRewardGiven)
}

func TestGrant_GeneratedCodeAvoidsAmbiguousCharacters(t *testing.T) {
	users, coupons, orders, notifier := newFixture()
	s := rewardsvc.New(txMock{}, users, coupons, orders, notifier)

	res, err := s.Grant(context.Background(), 7)
	require.NoError(t, err)
	body := strings.TrimPrefix(res.CouponCode, "LSO-")
	require.NotContains(t, body, "I")
	require.NotContains(t, body, "L")
	require.NotContains(t, body, "O")
	require.NotContains(t, body, "0")
	require.NotContains(t, body, "1")
}
