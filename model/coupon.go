package model

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFlat       DiscountType = "FLAT"
)

type CouponCategory string

const (
	CouponStandard         CouponCategory = "STANDARD"
	CouponFirstOrderReward CouponCategory = "FIRST_ORDER_REWARD"
)

// Coupon usage is counted in UsedCount, incremented only inside a committed
// order confirmation. Previews never touch it.
type Coupon struct {
	ID            int64          `json:"id"`
	Code          string         `json:"code"`
	DiscountType  DiscountType   `json:"discount_type"`
	DiscountValue float64        `json:"discount_value"`
	ValidFrom     time.Time      `json:"valid_from"`
	ValidUntil    time.Time      `json:"valid_until"`
	UsageLimit    *int64         `json:"usage_limit,omitempty"`
	UsedCount     int64          `json:"used_count"`
	MinOrderValue *float64       `json:"min_order_value,omitempty"`
	MaxDiscount   *float64       `json:"max_discount,omitempty"`
	AllowedUserID *int64         `json:"allowed_user_id,omitempty"`
	IsActive      bool           `json:"is_active"`
	Category      CouponCategory `json:"category"`
	CreatedAt     time.Time      `json:"created_at"`
}
