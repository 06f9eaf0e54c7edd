package reservationrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"
)

type Repo interface {
	// SumReserved counts active reservation quantity overlapping [start, end).
	SumReserved(ctx context.Context, q database.Querier, productID int64, variantID *int64, start, end time.Time) (int64, error)
	Insert(ctx context.Context, q database.Querier, res *model.Reservation) (int64, error)
	DeactivateByOrder(ctx context.Context, q database.Querier, orderID int64) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) SumReserved(ctx context.Context, q database.Querier, productID int64, variantID *int64, start, end time.Time) (int64, error) {
	// Half-open intervals: [a,b) and [c,d) overlap iff a < d AND b > c.
	const query = `
		SELECT COALESCE(SUM(quantity), 0)
		FROM reservations
		WHERE product_id = $1
		AND variant_id IS NOT DISTINCT FROM $2
		AND is_active
		AND start_date < $4
		AND end_date > $3`
	var reserved int64
	err := q.QueryRowContext(ctx, query, productID, variantID, start, end).Scan(&reserved)
	return reserved, err
}

func (r *repo) Insert(ctx context.Context, q database.Querier, res *model.Reservation) (int64, error) {
	const query = `
		INSERT INTO reservations (product_id, variant_id, order_id, quantity, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id`
	var id int64
	err := q.QueryRowContext(ctx, query,
		res.ProductID, res.VariantID, res.OrderID, res.Quantity, res.StartDate, res.EndDate,
	).Scan(&id)
	return id, err
}

func (r *repo) DeactivateByOrder(ctx context.Context, q database.Querier, orderID int64) (int64, error) {
	const query = `
		UPDATE reservations
		SET is_active = FALSE
		WHERE order_id = $1
		AND is_active`
	res, err := q.ExecContext(ctx, query, orderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
