package availability

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	availabilitysvc "github.com/Sujallukhi04/Leaseo-sub000/service/availability"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc availabilitysvc.Service
	Log *slog.Logger
}

// GET /v1/availability?product_id=&variant_id=&start=&end=
func (h *Controller) Check(c echo.Context) error {
	productID, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product_id"})
	}

	var variantID *int64
	if v := c.QueryParam("variant_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid variant_id"})
		}
		variantID = &id
	}

	start, err := time.Parse("2006-01-02", c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid start"})
	}
	end, err := time.Parse("2006-01-02", c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end"})
	}

	avail, err := h.Svc.Check(c.Request().Context(), productID, variantID, start, end)
	if err != nil {
		h.Log.Error("availability check", "product_id", productID, "err", err)
		switch availabilitysvc.Code(err) {
		case availabilitysvc.ErrBadRange:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "start must be before end"})
		case availabilitysvc.ErrProductNotFound, availabilitysvc.ErrVariantNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"available": avail})
}
