package model

import "time"

type OrderStatus string

const (
	OrderDraft      OrderStatus = "DRAFT"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// transitions is the only source of truth for the order lifecycle.
// DRAFT holds no inventory; CONFIRMED is reached only through a committed
// reservation transaction.
var transitions = map[OrderStatus][]OrderStatus{
	OrderDraft:      {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderInProgress, OrderCancelled},
	OrderInProgress: {OrderCompleted},
	OrderCompleted:  {},
	OrderCancelled:  {},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type RentalOrder struct {
	ID             int64             `json:"id"`
	CustomerID     int64             `json:"customer_id"`
	OrderNumber    string            `json:"order_number"`
	Status         OrderStatus       `json:"status"`
	Subtotal       float64           `json:"subtotal"`
	TaxAmount      float64           `json:"tax_amount"`
	DiscountAmount float64           `json:"discount_amount"`
	TotalAmount    float64           `json:"total_amount"`
	CouponCode     *string           `json:"coupon_code,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	ConfirmedAt    *time.Time        `json:"confirmed_at,omitempty"`
	Items          []RentalOrderItem `json:"items,omitempty"`
}

type RentalOrderItem struct {
	ID              int64      `json:"id"`
	OrderID         int64      `json:"order_id"`
	ProductID       int64      `json:"product_id"`
	VariantID       *int64     `json:"variant_id,omitempty"`
	Quantity        int64      `json:"quantity"`
	UnitPrice       float64    `json:"unit_price"`
	TotalPrice      float64    `json:"total_price"`
	RentalStartDate time.Time  `json:"rental_start_date"`
	RentalEndDate   time.Time  `json:"rental_end_date"`
	PeriodType      PeriodType `json:"period_type"`
	PeriodDuration  int64      `json:"period_duration"`
}
