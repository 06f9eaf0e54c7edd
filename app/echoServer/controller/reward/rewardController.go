package reward

import (
	"log/slog"
	"net/http"

	rewardsvc "github.com/Sujallukhi04/Leaseo-sub000/service/reward"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc rewardsvc.Service
	Log *slog.Logger
}

// POST /v1/rewards/first-order
func (h *Controller) Grant(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	res, err := h.Svc.Grant(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("reward grant", "user_id", uid, "err", err)
		switch rewardsvc.Code(err) {
		case rewardsvc.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	if !res.Granted {
		return c.JSON(http.StatusOK, echo.Map{
			"already_granted": true,
			"coupon_code":     res.CouponCode,
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{"coupon_code": res.CouponCode})
}
