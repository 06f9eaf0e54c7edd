package coupon

import (
	"log/slog"
	"net/http"

	couponsvc "github.com/Sujallukhi04/Leaseo-sub000/service/coupon"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc couponsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/coupons/validate
func (h *Controller) Validate(c echo.Context) error {
	var req ValidateCouponReq
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

	discount, err := h.Svc.Validate(c.Request().Context(), req.Code, req.Subtotal, uid)
	if err != nil {
		h.Log.Error("coupon validate", "code", req.Code, "err", err)
		switch couponsvc.Code(err) {
		case couponsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "coupon not found"})
		case "":
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		default:
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": string(couponsvc.Code(err))})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"discount_amount": discount})
}
