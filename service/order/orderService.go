package ordersvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound          ErrCode = "ORDER_NOT_FOUND"
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrNoItems           ErrCode = "NO_ITEMS"
	ErrBadItem           ErrCode = "BAD_ITEM"
	ErrProductNotFound   ErrCode = "PRODUCT_NOT_FOUND"
	ErrProductInactive   ErrCode = "PRODUCT_INACTIVE"
	ErrVariantNotFound   ErrCode = "VARIANT_NOT_FOUND"
	ErrIllegalTransition ErrCode = "ILLEGAL_TRANSITION"
	ErrInsufficientStock ErrCode = "INSUFFICIENT_STOCK"
	ErrConflict          ErrCode = "CONCURRENCY_CONFLICT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// StockError identifies which product was short and how much was actually
// available when the confirmation transaction re-checked.
type StockError struct {
	ProductID int64
	VariantID *int64
	Requested int64
	Available int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Code() ErrCode { return ErrInsufficientStock }

// NewItem is one requested line of a draft order.
type NewItem struct {
	ProductID      int64
	VariantID      *int64
	Quantity       int64
	StartDate      time.Time
	EndDate        time.Time
	PeriodDuration int64
}

type Repo interface {
	Insert(ctx context.Context, q database.Querier, o *model.RentalOrder) (int64, error)
	InsertItem(ctx context.Context, q database.Querier, it *model.RentalOrderItem) (int64, error)
	ForUpdate(ctx context.Context, q database.Querier, id int64) (*model.RentalOrder, error)
	ByID(ctx context.Context, id int64) (*model.RentalOrder, error)
	Items(ctx context.Context, q database.Querier, orderID int64) ([]model.RentalOrderItem, error)
	SetStatus(ctx context.Context, q database.Querier, id int64, status model.OrderStatus, confirmedAt *time.Time) error
	ListByCustomer(ctx context.Context, customerID int64) ([]model.RentalOrder, error)
}

type ReservationRepo interface {
	Insert(ctx context.Context, q database.Querier, res *model.Reservation) (int64, error)
	DeactivateByOrder(ctx context.Context, q database.Querier, orderID int64) (int64, error)
}

type CatalogRepo interface {
	ProductByID(ctx context.Context, id int64) (*model.Product, error)
	VariantBelongs(ctx context.Context, productID, variantID int64) (bool, error)
}

type Availability interface {
	CheckTx(ctx context.Context, q database.Querier, productID int64, variantID *int64, start, end time.Time) (int64, error)
}

type Coupons interface {
	Validate(ctx context.Context, code string, subtotal float64, customerID int64) (float64, error)
	Redeem(ctx context.Context, q database.Querier, code string, subtotal float64, customerID int64) (float64, error)
}

type TxRunner interface {
	RunTx(ctx context.Context, opts *sql.TxOptions, fn func(q database.Querier) error) error
}

type Service interface {
	// Create persists a DRAFT order (quotation). No availability check and no
	// reservation happens here; stock is committed only at confirmation.
	Create(ctx context.Context, customerID int64, items []NewItem, couponCode string) (*model.RentalOrder, error)

	// Confirm atomically re-checks availability, reserves every line item,
	// consumes the coupon and moves the order to CONFIRMED.
	Confirm(ctx context.Context, actorID int64, role string, orderID int64) (*model.RentalOrder, error)

	Cancel(ctx context.Context, actorID int64, role string, orderID int64) error
	Start(ctx context.Context, actorID int64, role string, orderID int64) error
	Complete(ctx context.Context, actorID int64, role string, orderID int64) error
	Get(ctx context.Context, actorID int64, role string, orderID int64) (*model.RentalOrder, error)
	MyOrders(ctx context.Context, customerID int64) ([]model.RentalOrder, error)
}

const (
	confirmRetries = 2
	retryBackoff   = 25 * time.Millisecond
)

type service struct {
	txr          TxRunner
	orders       Repo
	reservations ReservationRepo
	catalog      CatalogRepo
	avail        Availability
	coupons      Coupons
	taxRate      float64
	now          func() time.Time
}

func New(txr TxRunner, orders Repo, reservations ReservationRepo, catalog CatalogRepo, avail Availability, coupons Coupons, taxRate float64) Service {
	return &service{
		txr:          txr,
		orders:       orders,
		reservations: reservations,
		catalog:      catalog,
		avail:        avail,
		coupons:      coupons,
		taxRate:      taxRate,
		now:          time.Now,
	}
}

func (s *service) Create(ctx context.Context, customerID int64, items []NewItem, couponCode string) (*model.RentalOrder, error) {
	if len(items) == 0 {
		return nil, makeErr(ErrNoItems)
	}

	orderItems := make([]model.RentalOrderItem, 0, len(items))
	var subtotal float64
	for _, it := range items {
		if it.Quantity <= 0 || it.PeriodDuration <= 0 || !it.StartDate.Before(it.EndDate) {
			return nil, makeErr(ErrBadItem)
		}
		p, err := s.catalog.ProductByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, makeErr(ErrProductNotFound)
		}
		if !p.IsActive {
			return nil, makeErr(ErrProductInactive)
		}
		if it.VariantID != nil {
			ok, err := s.catalog.VariantBelongs(ctx, it.ProductID, *it.VariantID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, makeErr(ErrVariantNotFound)
			}
		}
		total := p.BasePrice * float64(it.Quantity) * float64(it.PeriodDuration)
		orderItems = append(orderItems, model.RentalOrderItem{
			ProductID:       it.ProductID,
			VariantID:       it.VariantID,
			Quantity:        it.Quantity,
			UnitPrice:       p.BasePrice,
			TotalPrice:      total,
			RentalStartDate: it.StartDate,
			RentalEndDate:   it.EndDate,
			PeriodType:      p.PeriodType,
			PeriodDuration:  it.PeriodDuration,
		})
		subtotal += total
	}

	// Coupon preview only; usage is consumed when the order confirms.
	var discount float64
	var codePtr *string
	if couponCode != "" {
		d, err := s.coupons.Validate(ctx, couponCode, subtotal, customerID)
		if err != nil {
			return nil, err
		}
		discount = d
		codePtr = &couponCode
	}

	tax := (subtotal - discount) * s.taxRate
	o := &model.RentalOrder{
		CustomerID:     customerID,
		OrderNumber:    newOrderNumber(s.now()),
		Status:         model.OrderDraft,
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		TotalAmount:    subtotal - discount + tax,
		CouponCode:     codePtr,
	}

	err := s.txr.RunTx(ctx, nil, func(q database.Querier) error {
		if _, err := s.orders.Insert(ctx, q, o); err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = o.ID
			id, err := s.orders.InsertItem(ctx, q, &orderItems[i])
			if err != nil {
				return err
			}
			orderItems[i].ID = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.Items = orderItems
	return o, nil
}

func (s *service) Confirm(ctx context.Context, actorID int64, role string, orderID int64) (*model.RentalOrder, error) {
	var out *model.RentalOrder
	var err error
	for attempt := 0; ; attempt++ {
		out, err = s.confirmOnce(ctx, actorID, role, orderID)
		if !isSerializationConflict(err) || attempt >= confirmRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBackoff << attempt):
		}
	}
	if isSerializationConflict(err) {
		return nil, makeErr(ErrConflict)
	}
	return out, err
}

func (s *service) confirmOnce(ctx context.Context, actorID int64, role string, orderID int64) (*model.RentalOrder, error) {
	var out *model.RentalOrder
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	err := s.txr.RunTx(ctx, opts, func(q database.Querier) error {
		o, err := s.orders.ForUpdate(ctx, q, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return makeErr(ErrNotFound)
		}
		if o.CustomerID != actorID && role != model.RoleAdmin {
			return makeErr(ErrForbidden)
		}
		if !o.Status.CanTransitionTo(model.OrderConfirmed) {
			return makeErr(ErrIllegalTransition)
		}

		items, err := s.orders.Items(ctx, q, orderID)
		if err != nil {
			return err
		}
		for _, it := range items {
			// Authoritative re-check; any advisory read before this point is
			// not trusted.
			avail, err := s.avail.CheckTx(ctx, q, it.ProductID, it.VariantID, it.RentalStartDate, it.RentalEndDate)
			if err != nil {
				return err
			}
			if it.Quantity > avail {
				return &StockError{
					ProductID: it.ProductID,
					VariantID: it.VariantID,
					Requested: it.Quantity,
					Available: avail,
				}
			}
			if _, err := s.reservations.Insert(ctx, q, &model.Reservation{
				ProductID: it.ProductID,
				VariantID: it.VariantID,
				OrderID:   orderID,
				Quantity:  it.Quantity,
				StartDate: it.RentalStartDate,
				EndDate:   it.RentalEndDate,
				IsActive:  true,
			}); err != nil {
				return err
			}
		}

		if o.CouponCode != nil {
			if _, err := s.coupons.Redeem(ctx, q, *o.CouponCode, o.Subtotal, o.CustomerID); err != nil {
				return err
			}
		}

		confirmedAt := s.now().UTC()
		if err := s.orders.SetStatus(ctx, q, orderID, model.OrderConfirmed, &confirmedAt); err != nil {
			return err
		}
		o.Status = model.OrderConfirmed
		o.ConfirmedAt = &confirmedAt
		o.Items = items
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Cancel(ctx context.Context, actorID int64, role string, orderID int64) error {
	return s.txr.RunTx(ctx, nil, func(q database.Querier) error {
		o, err := s.orders.ForUpdate(ctx, q, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return makeErr(ErrNotFound)
		}
		if o.CustomerID != actorID && role != model.RoleAdmin {
			return makeErr(ErrForbidden)
		}
		if !o.Status.CanTransitionTo(model.OrderCancelled) {
			return makeErr(ErrIllegalTransition)
		}
		// Freed capacity must be visible to availability immediately, so the
		// reservations flip inside the same transaction.
		if _, err := s.reservations.DeactivateByOrder(ctx, q, orderID); err != nil {
			return err
		}
		return s.orders.SetStatus(ctx, q, orderID, model.OrderCancelled, nil)
	})
}

func (s *service) Start(ctx context.Context, actorID int64, role string, orderID int64) error {
	return s.advance(ctx, actorID, role, orderID, model.OrderInProgress)
}

func (s *service) Complete(ctx context.Context, actorID int64, role string, orderID int64) error {
	return s.advance(ctx, actorID, role, orderID, model.OrderCompleted)
}

// advance moves a confirmed order through the vendor-side lifecycle. Only a
// vendor owning every product on the order, or an admin, may do this.
func (s *service) advance(ctx context.Context, actorID int64, role string, orderID int64, next model.OrderStatus) error {
	if role != model.RoleVendor && role != model.RoleAdmin {
		return makeErr(ErrForbidden)
	}
	return s.txr.RunTx(ctx, nil, func(q database.Querier) error {
		o, err := s.orders.ForUpdate(ctx, q, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return makeErr(ErrNotFound)
		}
		if role == model.RoleVendor {
			items, err := s.orders.Items(ctx, q, orderID)
			if err != nil {
				return err
			}
			for _, it := range items {
				p, err := s.catalog.ProductByID(ctx, it.ProductID)
				if err != nil {
					return err
				}
				if p == nil || p.VendorID != actorID {
					return makeErr(ErrForbidden)
				}
			}
		}
		if !o.Status.CanTransitionTo(next) {
			return makeErr(ErrIllegalTransition)
		}
		return s.orders.SetStatus(ctx, q, orderID, next, nil)
	})
}

func (s *service) Get(ctx context.Context, actorID int64, role string, orderID int64) (*model.RentalOrder, error) {
	o, err := s.orders.ByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, makeErr(ErrNotFound)
	}
	if o.CustomerID != actorID && role != model.RoleAdmin {
		return nil, makeErr(ErrForbidden)
	}
	items, err := s.orders.Items(ctx, nil, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (s *service) MyOrders(ctx context.Context, customerID int64) ([]model.RentalOrder, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}

// isSerializationConflict reports whether Postgres aborted the transaction to
// keep concurrent confirmations serializable. Safe to retry: availability is
// re-derived on every attempt.
func isSerializationConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return false
}
