package model

import "time"

type PeriodType string

const (
	PeriodDay   PeriodType = "DAY"
	PeriodWeek  PeriodType = "WEEK"
	PeriodMonth PeriodType = "MONTH"
)

// Product is catalog data owned by a vendor; read-only to this engine.
type Product struct {
	ID         int64      `json:"id"`
	VendorID   int64      `json:"vendor_id"`
	Name       string     `json:"name"`
	BasePrice  float64    `json:"base_price"`
	PeriodType PeriodType `json:"period_type"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ProductVariant struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
}

// InventoryRecord is one quantity row; totals are summed per product/variant.
type InventoryRecord struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	VariantID *int64 `json:"variant_id,omitempty"`
	Location  string `json:"location"`
	Quantity  int64  `json:"quantity"`
}
