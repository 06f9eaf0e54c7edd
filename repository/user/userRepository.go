package userrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"
)

type Repo interface {
	ForUpdate(ctx context.Context, q database.Querier, id int64) (*model.User, error)
	SetRewardGranted(ctx context.Context, q database.Querier, id int64, couponCode string) error
	InsertNotification(ctx context.Context, q database.Querier, n *model.Notification) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

// ForUpdate returns (nil, nil) when the user does not exist.
func (r *repo) ForUpdate(ctx context.Context, q database.Querier, id int64) (*model.User, error) {
	const query = `
		SELECT id, role, first_order_reward_given, last_reward_coupon_code, created_at
		FROM users
		WHERE id = $1
		FOR UPDATE`
	u := &model.User{}
	err := q.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Role, &u.FirstOrderRewardGiven, &u.LastRewardCouponCode, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) SetRewardGranted(ctx context.Context, q database.Querier, id int64, couponCode string) error {
	const query = `
		UPDATE users
		SET first_order_reward_given = TRUE,
			last_reward_coupon_code = $2
		WHERE id = $1`
	_, err := q.ExecContext(ctx, query, id, couponCode)
	return err
}

func (r *repo) InsertNotification(ctx context.Context, q database.Querier, n *model.Notification) (int64, error) {
	const query = `
		INSERT INTO notifications (user_id, kind, message, coupon_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	var id int64
	err := q.QueryRowContext(ctx, query, n.UserID, n.Kind, n.Message, n.CouponCode).Scan(&id)
	return id, err
}
