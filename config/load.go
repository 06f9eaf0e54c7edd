package config

import (
	"log/slog"

	"github.com/spf13/viper"
)

func Load() App {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("JWT_SECRET", "local_dev_secret")
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("TAX_RATE", 0.0)
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("NOTIFY_WEBHOOK_URL", "")

	return App{
		Port:             v.GetString("APP_PORT"),
		DatabaseURL:      must(v, "DATABASE_URL"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		Env:              v.GetString("APP_ENV"),
		TaxRate:          v.GetFloat64("TAX_RATE"),
		MigrationsDir:    v.GetString("MIGRATIONS_DIR"),
		NotifyWebhookURL: v.GetString("NOTIFY_WEBHOOK_URL"),
	}
}

func must(v *viper.Viper, k string) string {
	s := v.GetString(k)
	if s == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return s
}
