package availabilitysvc_test

import (
	"context"
	"testing"
	"time"

	availabilitysvc "github.com/Sujallukhi04/Leaseo-sub000/service/availability"

	"github.com/Sujallukhi04/Leaseo-sub000/model"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"

	"github.com/stretchr/testify/require"
)

type catalogMock struct {
	productFn func(ctx context.Context, id int64) (*model.Product, error)
	variantFn func(ctx context.Context, productID, variantID int64) (bool, error)
	inventory int64
}

func (m *catalogMock) ProductByID(ctx context.Context, id int64) (*model.Product, error) {
	if m.productFn == nil {
		return &model.Product{ID: id, IsActive: true}, nil
	}
	return m.productFn(ctx, id)
}

func (m *catalogMock) VariantBelongs(ctx context.Context, productID, variantID int64) (bool, error) {
	if m.variantFn == nil {
		return true, nil
	}
	return m.variantFn(ctx, productID, variantID)
}

func (m *catalogMock) SumInventory(ctx context.Context, q database.Querier, productID int64, variantID *int64) (int64, error) {
	return m.inventory, nil
}

type reservationMock struct {
	reserved int64
}

func (m *reservationMock) SumReserved(ctx context.Context, q database.Querier, productID int64, variantID *int64, start, end time.Time) (int64, error) {
	return m.reserved, nil
}

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestCheck_BadRange(t *testing.T) {
	s := availabilitysvc.New(nil, &catalogMock{}, &reservationMock{})

	_, err := s.Check(context.Background(), 1, nil, day(5), day(5))
	require.Equal(t, availabilitysvc.ErrBadRange, availabilitysvc.Code(err))

	_, err = s.Check(context.Background(), 1, nil, day(5), day(3))
	require.Equal(t, availabilitysvc.ErrBadRange, availabilitysvc.Code(err))
}

func TestCheck_ProductNotFound(t *testing.T) {
	m := &catalogMock{productFn: func(ctx context.Context, id int64) (*model.Product, error) {
		return nil, nil
	}}
	s := availabilitysvc.New(nil, m, &reservationMock{})

	_, err := s.Check(context.Background(), 99, nil, day(1), day(5))
	require.Equal(t, availabilitysvc.ErrProductNotFound, availabilitysvc.Code(err))
}

func TestCheck_VariantNotFound(t *testing.T) {
	m := &catalogMock{variantFn: func(ctx context.Context, productID, variantID int64) (bool, error) {
		return false, nil
	}}
	s := availabilitysvc.New(nil, m, &reservationMock{})

	vid := int64(3)
	_, err := s.Check(context.Background(), 1, &vid, day(1), day(5))
	require.Equal(t, availabilitysvc.ErrVariantNotFound, availabilitysvc.Code(err))
}

func TestCheck_SubtractsReserved(t *testing.T) {
	s := availabilitysvc.New(nil, &catalogMock{inventory: 10}, &reservationMock{reserved: 4})

	avail, err := s.Check(context.Background(), 1, nil, day(1), day(5))
	require.NoError(t, err)
	require.Equal(t, int64(6), avail)
}

func TestCheck_ClampsAtZero(t *testing.T) {
	s := availabilitysvc.New(nil, &catalogMock{inventory: 3}, &reservationMock{reserved: 7})

	avail, err := s.Check(context.Background(), 1, nil, day(1), day(5))
	require.NoError(t, err)
	require.Equal(t, int64(0), avail)
}
