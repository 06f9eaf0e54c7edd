package order

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	couponsvc "github.com/Sujallukhi04/Leaseo-sub000/service/coupon"
	ordersvc "github.com/Sujallukhi04/Leaseo-sub000/service/order"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc ordersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/orders
func (h *Controller) Create(c echo.Context) error {
	var req CreateOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	items := make([]ordersvc.NewItem, 0, len(req.Items))
	for _, it := range req.Items {
		start, err := time.Parse("2006-01-02", it.StartDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid start_date"})
		}
		end, err := time.Parse("2006-01-02", it.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end_date"})
		}
		items = append(items, ordersvc.NewItem{
			ProductID:      it.ProductID,
			VariantID:      it.VariantID,
			Quantity:       it.Quantity,
			StartDate:      start,
			EndDate:        end,
			PeriodDuration: it.PeriodDuration,
		})
	}

	out, err := h.Svc.Create(c.Request().Context(), uid, items, req.CouponCode)
	if err != nil {
		h.Log.Error("order create", "err", err)
		if code := couponsvc.Code(err); code != "" {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": string(code)})
		}
		switch ordersvc.Code(err) {
		case ordersvc.ErrNoItems, ordersvc.ErrBadItem:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid items"})
		case ordersvc.ErrProductNotFound, ordersvc.ErrVariantNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
		case ordersvc.ErrProductInactive:
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "product not rentable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"order_id":        out.ID,
		"order_number":    out.OrderNumber,
		"status":          out.Status,
		"subtotal":        out.Subtotal,
		"discount_amount": out.DiscountAmount,
		"tax_amount":      out.TaxAmount,
		"total_amount":    out.TotalAmount,
	})
}

// POST /v1/orders/:id/confirm
func (h *Controller) Confirm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)

	out, err := h.Svc.Confirm(c.Request().Context(), uid, role, id)
	if err != nil {
		h.Log.Error("order confirm", "order_id", id, "err", err)

		var se *ordersvc.StockError
		if errors.As(err, &se) {
			return c.JSON(http.StatusConflict, echo.Map{
				"message":    "insufficient stock",
				"product_id": se.ProductID,
				"requested":  se.Requested,
				"available":  se.Available,
			})
		}
		if code := couponsvc.Code(err); code != "" {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": string(code)})
		}
		switch ordersvc.Code(err) {
		case ordersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		case ordersvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case ordersvc.ErrIllegalTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": "order not confirmable"})
		case ordersvc.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"message": "busy, please retry"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// POST /v1/orders/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	return h.lifecycle(c, "cancel", h.Svc.Cancel)
}

// POST /v1/orders/:id/start
func (h *Controller) Start(c echo.Context) error {
	return h.lifecycle(c, "start", h.Svc.Start)
}

// POST /v1/orders/:id/complete
func (h *Controller) Complete(c echo.Context) error {
	return h.lifecycle(c, "complete", h.Svc.Complete)
}

func (h *Controller) lifecycle(c echo.Context, action string, fn func(ctx context.Context, actorID int64, role string, orderID int64) error) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)

	if err := fn(c.Request().Context(), uid, role, id); err != nil {
		h.Log.Error("order "+action, "order_id", id, "err", err)
		switch ordersvc.Code(err) {
		case ordersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		case ordersvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case ordersvc.ErrIllegalTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": "illegal status transition"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}

// GET /v1/orders/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)

	out, err := h.Svc.Get(c.Request().Context(), uid, role, id)
	if err != nil {
		h.Log.Error("order get", "order_id", id, "err", err)
		switch ordersvc.Code(err) {
		case ordersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		case ordersvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/orders/my
func (h *Controller) MyOrders(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.MyOrders(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("order history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

var errInvalidID = errors.New("invalid id")
