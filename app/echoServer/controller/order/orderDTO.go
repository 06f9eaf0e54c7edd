package order

type OrderItemReq struct {
	ProductID      int64  `json:"product_id" validate:"required,gt=0"`
	VariantID      *int64 `json:"variant_id,omitempty" validate:"omitempty,gt=0"`
	Quantity       int64  `json:"quantity" validate:"required,gt=0"`
	StartDate      string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"end_date" validate:"required,datetime=2006-01-02"`
	PeriodDuration int64  `json:"period_duration" validate:"required,gt=0"`
}

type CreateOrderReq struct {
	Items      []OrderItemReq `json:"items" validate:"required,min=1,dive"`
	CouponCode string         `json:"coupon_code,omitempty"`
}
