// Package main rental reservation API.
//
// @title           Leaseo Reservation API
// @version         1.0
// @description     Rental reservation engine (availability, orders, coupons, rewards).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/Sujallukhi04/Leaseo-sub000/app/echoServer"
	availabilityctrl "github.com/Sujallukhi04/Leaseo-sub000/app/echoServer/controller/availability"
	couponctrl "github.com/Sujallukhi04/Leaseo-sub000/app/echoServer/controller/coupon"
	orderctrl "github.com/Sujallukhi04/Leaseo-sub000/app/echoServer/controller/order"
	rewardctrl "github.com/Sujallukhi04/Leaseo-sub000/app/echoServer/controller/reward"
	"github.com/Sujallukhi04/Leaseo-sub000/app/echoServer/validation"
	"github.com/Sujallukhi04/Leaseo-sub000/config"
	catalogrepo "github.com/Sujallukhi04/Leaseo-sub000/repository/catalog"
	couponrepo "github.com/Sujallukhi04/Leaseo-sub000/repository/coupon"
	orderrepo "github.com/Sujallukhi04/Leaseo-sub000/repository/order"
	reservationrepo "github.com/Sujallukhi04/Leaseo-sub000/repository/reservation"
	userrepo "github.com/Sujallukhi04/Leaseo-sub000/repository/user"
	webhookrepo "github.com/Sujallukhi04/Leaseo-sub000/repository/webhook"
	availabilitysvc "github.com/Sujallukhi04/Leaseo-sub000/service/availability"
	couponsvc "github.com/Sujallukhi04/Leaseo-sub000/service/coupon"
	ordersvc "github.com/Sujallukhi04/Leaseo-sub000/service/order"
	rewardsvc "github.com/Sujallukhi04/Leaseo-sub000/service/reward"
	"github.com/Sujallukhi04/Leaseo-sub000/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// schema
	if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	catr := catalogrepo.New(db.SQL)
	resr := reservationrepo.New(db.SQL)
	ordr := orderrepo.New(db.SQL)
	coupr := couponrepo.New(db.SQL)
	usrr := userrepo.New(db.SQL)
	whr := webhookrepo.NewHTTP(cfg.NotifyWebhookURL)

	// services
	avs := availabilitysvc.New(db.SQL, catr, resr)
	cps := couponsvc.New(db.SQL, coupr, ordr)
	ors := ordersvc.New(db, ordr, resr, catr, avs, cps, cfg.TaxRate)
	rws := rewardsvc.New(db, usrr, coupr, ordr, whr)

	// controllers
	v := validator.New()
	orderC := &orderctrl.Controller{Svc: ors, V: v, Log: log}
	availC := &availabilityctrl.Controller{Svc: avs, Log: log}
	couponC := &couponctrl.Controller{Svc: cps, V: v, Log: log}
	rewardC := &rewardctrl.Controller{Svc: rws, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Order:        orderC,
		Availability: availC,
		Coupon:       couponC,
		Reward:       rewardC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
