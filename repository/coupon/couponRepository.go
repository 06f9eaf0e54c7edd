package couponrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"
)

// ErrUsageExhausted is returned when the guarded increment matches no row,
// i.e. used_count already reached usage_limit.
var ErrUsageExhausted = errors.New("coupon usage exhausted")

type Repo interface {
	ByCode(ctx context.Context, q database.Querier, code string) (*model.Coupon, error)
	ByCodeForUpdate(ctx context.Context, q database.Querier, code string) (*model.Coupon, error)
	ConsumeUse(ctx context.Context, q database.Querier, code string) error
	Insert(ctx context.Context, q database.Querier, c *model.Coupon) (int64, error)
	CodeExists(ctx context.Context, q database.Querier, code string) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const couponColumns = `id, code, discount_type, discount_value, valid_from, valid_until, usage_limit, used_count, min_order_value, max_discount, allowed_user_id, is_active, category, created_at`

func (r *repo) ByCode(ctx context.Context, q database.Querier, code string) (*model.Coupon, error) {
	const query = `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE upper(code) = upper($1)`
	return scanCoupon(q.QueryRowContext(ctx, query, code))
}

func (r *repo) ByCodeForUpdate(ctx context.Context, q database.Querier, code string) (*model.Coupon, error) {
	const query = `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE upper(code) = upper($1)
		FOR UPDATE`
	return scanCoupon(q.QueryRowContext(ctx, query, code))
}

func scanCoupon(row *sql.Row) (*model.Coupon, error) {
	c := &model.Coupon{}
	err := row.Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue,
		&c.ValidFrom, &c.ValidUntil, &c.UsageLimit, &c.UsedCount,
		&c.MinOrderValue, &c.MaxDiscount, &c.AllowedUserID,
		&c.IsActive, &c.Category, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ConsumeUse increments used_count only while under the limit.
func (r *repo) ConsumeUse(ctx context.Context, q database.Querier, code string) error {
	const query = `
		UPDATE coupons
		SET used_count = used_count + 1
		WHERE upper(code) = upper($1)
		AND (usage_limit IS NULL OR used_count < usage_limit)`
	res, err := q.ExecContext(ctx, query, code)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrUsageExhausted
	}
	return nil
}

func (r *repo) Insert(ctx context.Context, q database.Querier, c *model.Coupon) (int64, error) {
	const query = `
		INSERT INTO coupons (code, discount_type, discount_value, valid_from, valid_until, usage_limit, min_order_value, max_discount, allowed_user_id, is_active, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	var id int64
	err := q.QueryRowContext(ctx, query,
		c.Code, c.DiscountType, c.DiscountValue, c.ValidFrom, c.ValidUntil,
		c.UsageLimit, c.MinOrderValue, c.MaxDiscount, c.AllowedUserID,
		c.IsActive, c.Category,
	).Scan(&id)
	return id, err
}

func (r *repo) CodeExists(ctx context.Context, q database.Querier, code string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM coupons WHERE upper(code) = upper($1)
		)`
	var ok bool
	err := q.QueryRowContext(ctx, query, code).Scan(&ok)
	return ok, err
}
