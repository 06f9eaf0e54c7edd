package catalogrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"
)

type Repo interface {
	ProductByID(ctx context.Context, id int64) (*model.Product, error)
	VariantBelongs(ctx context.Context, productID, variantID int64) (bool, error)
	SumInventory(ctx context.Context, q database.Querier, productID int64, variantID *int64) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

// ProductByID returns (nil, nil) when the product does not exist.
func (r *repo) ProductByID(ctx context.Context, id int64) (*model.Product, error) {
	const q = `
		SELECT id, vendor_id, name, base_price, period_type, is_active, created_at
		FROM products
		WHERE id = $1`
	p := &model.Product{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.VendorID, &p.Name, &p.BasePrice, &p.PeriodType, &p.IsActive, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) VariantBelongs(ctx context.Context, productID, variantID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM product_variants
			WHERE id = $1 AND product_id = $2
		)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, variantID, productID).Scan(&ok)
	return ok, err
}

// SumInventory totals inventory rows for a product/variant. Rows may be split
// across locations; the engine treats them as one pool.
func (r *repo) SumInventory(ctx context.Context, q database.Querier, productID int64, variantID *int64) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_records
		WHERE product_id = $1
		AND variant_id IS NOT DISTINCT FROM $2`
	var total int64
	err := q.QueryRowContext(ctx, query, productID, variantID).Scan(&total)
	return total, err
}
