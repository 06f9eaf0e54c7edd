package model

import "time"

const NotificationRewardCoupon = "REWARD_COUPON"

type Notification struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Kind       string     `json:"kind"`
	Message    string     `json:"message"`
	CouponCode *string    `json:"coupon_code,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}
