package model

import "time"

const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

type User struct {
	ID                    int64     `json:"id"`
	Role                  string    `json:"role"`
	FirstOrderRewardGiven bool      `json:"first_order_reward_given"`
	LastRewardCouponCode  *string   `json:"last_reward_coupon_code,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}
