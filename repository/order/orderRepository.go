package orderrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"
)

type Repo interface {
	Insert(ctx context.Context, q database.Querier, o *model.RentalOrder) (int64, error)
	InsertItem(ctx context.Context, q database.Querier, it *model.RentalOrderItem) (int64, error)
	ForUpdate(ctx context.Context, q database.Querier, id int64) (*model.RentalOrder, error)
	ByID(ctx context.Context, id int64) (*model.RentalOrder, error)
	Items(ctx context.Context, q database.Querier, orderID int64) ([]model.RentalOrderItem, error)
	SetStatus(ctx context.Context, q database.Querier, id int64, status model.OrderStatus, confirmedAt *time.Time) error
	CountByCustomer(ctx context.Context, q database.Querier, customerID int64) (int64, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.RentalOrder, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

// querier falls back to the pool when no transaction is in flight.
func (r *repo) querier(q database.Querier) database.Querier {
	if q == nil {
		return r.db
	}
	return q
}

const orderColumns = `id, customer_id, order_number, status, subtotal, tax_amount, discount_amount, total_amount, coupon_code, created_at, confirmed_at`

func (r *repo) Insert(ctx context.Context, q database.Querier, o *model.RentalOrder) (int64, error) {
	const query = `
		INSERT INTO rental_orders (customer_id, order_number, status, subtotal, tax_amount, discount_amount, total_amount, coupon_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query,
		o.CustomerID, o.OrderNumber, o.Status, o.Subtotal, o.TaxAmount, o.DiscountAmount, o.TotalAmount, o.CouponCode,
	).Scan(&o.ID, &o.CreatedAt)
	return o.ID, err
}

func (r *repo) InsertItem(ctx context.Context, q database.Querier, it *model.RentalOrderItem) (int64, error) {
	const query = `
		INSERT INTO rental_order_items (order_id, product_id, variant_id, quantity, unit_price, total_price, rental_start_date, rental_end_date, period_type, period_duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	var id int64
	err := q.QueryRowContext(ctx, query,
		it.OrderID, it.ProductID, it.VariantID, it.Quantity, it.UnitPrice, it.TotalPrice,
		it.RentalStartDate, it.RentalEndDate, it.PeriodType, it.PeriodDuration,
	).Scan(&id)
	return id, err
}

// ForUpdate locks the order row for the duration of the transaction.
// Returns (nil, nil) when the order does not exist.
func (r *repo) ForUpdate(ctx context.Context, q database.Querier, id int64) (*model.RentalOrder, error) {
	const query = `
		SELECT ` + orderColumns + `
		FROM rental_orders
		WHERE id = $1
		FOR UPDATE`
	return scanOrder(q.QueryRowContext(ctx, query, id))
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.RentalOrder, error) {
	const query = `
		SELECT ` + orderColumns + `
		FROM rental_orders
		WHERE id = $1`
	return scanOrder(r.db.QueryRowContext(ctx, query, id))
}

func scanOrder(row *sql.Row) (*model.RentalOrder, error) {
	o := &model.RentalOrder{}
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.OrderNumber, &o.Status,
		&o.Subtotal, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount,
		&o.CouponCode, &o.CreatedAt, &o.ConfirmedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) Items(ctx context.Context, q database.Querier, orderID int64) ([]model.RentalOrderItem, error) {
	const query = `
		SELECT id, order_id, product_id, variant_id, quantity, unit_price, total_price, rental_start_date, rental_end_date, period_type, period_duration
		FROM rental_order_items
		WHERE order_id = $1
		ORDER BY id`
	rows, err := r.querier(q).QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RentalOrderItem
	for rows.Next() {
		var it model.RentalOrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.Quantity,
			&it.UnitPrice, &it.TotalPrice, &it.RentalStartDate, &it.RentalEndDate,
			&it.PeriodType, &it.PeriodDuration,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *repo) SetStatus(ctx context.Context, q database.Querier, id int64, status model.OrderStatus, confirmedAt *time.Time) error {
	const query = `
		UPDATE rental_orders
		SET status = $2,
			confirmed_at = COALESCE($3, confirmed_at)
		WHERE id = $1`
	_, err := q.ExecContext(ctx, query, id, status, confirmedAt)
	return err
}

// CountByCustomer counts orders that ever held inventory; drafts and
// cancellations do not make a customer a "prior" customer.
func (r *repo) CountByCustomer(ctx context.Context, q database.Querier, customerID int64) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM rental_orders
		WHERE customer_id = $1
		AND status NOT IN ('DRAFT', 'CANCELLED')`
	var n int64
	err := q.QueryRowContext(ctx, query, customerID).Scan(&n)
	return n, err
}

func (r *repo) ListByCustomer(ctx context.Context, customerID int64) ([]model.RentalOrder, error) {
	const query = `
		SELECT ` + orderColumns + `
		FROM rental_orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RentalOrder
	for rows.Next() {
		var o model.RentalOrder
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.OrderNumber, &o.Status,
			&o.Subtotal, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount,
			&o.CouponCode, &o.CreatedAt, &o.ConfirmedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
