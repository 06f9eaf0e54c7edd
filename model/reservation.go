package model

import "time"

// Reservation claims capacity for the half-open interval [StartDate, EndDate).
// Touching boundaries never overlap.
type Reservation struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	VariantID *int64    `json:"variant_id,omitempty"`
	OrderID   int64     `json:"order_id"`
	Quantity  int64     `json:"quantity"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
