package availabilitysvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"
)

type ErrCode string

const (
	ErrBadRange        ErrCode = "BAD_RANGE"
	ErrProductNotFound ErrCode = "PRODUCT_NOT_FOUND"
	ErrVariantNotFound ErrCode = "VARIANT_NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type CatalogRepo interface {
	ProductByID(ctx context.Context, id int64) (*model.Product, error)
	VariantBelongs(ctx context.Context, productID, variantID int64) (bool, error)
	SumInventory(ctx context.Context, q database.Querier, productID int64, variantID *int64) (int64, error)
}

type ReservationRepo interface {
	SumReserved(ctx context.Context, q database.Querier, productID int64, variantID *int64, start, end time.Time) (int64, error)
}

type Service interface {
	// Check is the advisory read used outside any transaction. The result is
	// never binding; confirmation re-derives it.
	Check(ctx context.Context, productID int64, variantID *int64, start, end time.Time) (int64, error)

	// CheckTx runs the same computation on q. Passing the confirmation's
	// *sql.Tx makes the result authoritative under its isolation level.
	CheckTx(ctx context.Context, q database.Querier, productID int64, variantID *int64, start, end time.Time) (int64, error)
}

type service struct {
	db  *sql.DB
	cat CatalogRepo
	res ReservationRepo
}

func New(db *sql.DB, cat CatalogRepo, res ReservationRepo) Service {
	return &service{db: db, cat: cat, res: res}
}

func (s *service) Check(ctx context.Context, productID int64, variantID *int64, start, end time.Time) (int64, error) {
	if !start.Before(end) {
		return 0, makeErr(ErrBadRange)
	}
	p, err := s.cat.ProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, makeErr(ErrProductNotFound)
	}
	if variantID != nil {
		ok, err := s.cat.VariantBelongs(ctx, productID, *variantID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, makeErr(ErrVariantNotFound)
		}
	}
	return s.CheckTx(ctx, s.db, productID, variantID, start, end)
}

func (s *service) CheckTx(ctx context.Context, q database.Querier, productID int64, variantID *int64, start, end time.Time) (int64, error) {
	if !start.Before(end) {
		return 0, makeErr(ErrBadRange)
	}
	total, err := s.cat.SumInventory(ctx, q, productID, variantID)
	if err != nil {
		return 0, err
	}
	reserved, err := s.res.SumReserved(ctx, q, productID, variantID, start, end)
	if err != nil {
		return 0, err
	}
	avail := total - reserved
	if avail < 0 {
		avail = 0
	}
	return avail, nil
}
