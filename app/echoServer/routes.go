package echoServer

import (
	"net/http"

	"github.com/Sujallukhi04/Leaseo-sub000/app/echoServer/controller/availability"
	"github.com/Sujallukhi04/Leaseo-sub000/app/echoServer/controller/coupon"
	"github.com/Sujallukhi04/Leaseo-sub000/app/echoServer/controller/order"
	"github.com/Sujallukhi04/Leaseo-sub000/app/echoServer/controller/reward"
	"github.com/Sujallukhi04/Leaseo-sub000/app/echoServer/jwtx"
	utiljwt "github.com/Sujallukhi04/Leaseo-sub000/util/jwt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Order        *order.Controller
	Availability *availability.Controller
	Coupon       *coupon.Controller
	Reward       *reward.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:Authorization",
		ParseTokenFunc: func(ctx echo.Context, authHeader string) (interface{}, error) {
			return utiljwt.ParseAuth(authHeader, c.JWTSecret)
		},
	}))
	// principal extraction: every protected route sees user_id and role
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			role, err := jwtx.RoleFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			ctx.Set("role", role)
			return next(ctx)
		}
	})

	// Orders
	auth.POST("/orders", c.Order.Create)
	auth.POST("/orders/:id/confirm", c.Order.Confirm)
	auth.POST("/orders/:id/cancel", c.Order.Cancel)
	auth.POST("/orders/:id/start", c.Order.Start)
	auth.POST("/orders/:id/complete", c.Order.Complete)
	auth.GET("/orders/my", c.Order.MyOrders)
	auth.GET("/orders/:id", c.Order.Get)

	// Availability (advisory, UI-facing)
	auth.GET("/availability", c.Availability.Check)

	// Coupons
	auth.POST("/coupons/validate", c.Coupon.Validate)

	// First-order reward, triggered on visit
	auth.POST("/rewards/first-order", c.Reward.Grant)
}
