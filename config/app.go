package config

type App struct {
	Port             string  `mapstructure:"APP_PORT"`
	DatabaseURL      string  `mapstructure:"DATABASE_URL"`
	JWTSecret        string  `mapstructure:"JWT_SECRET"`
	Env              string  `mapstructure:"APP_ENV"`
	TaxRate          float64 `mapstructure:"TAX_RATE"`
	MigrationsDir    string  `mapstructure:"MIGRATIONS_DIR"`
	NotifyWebhookURL string  `mapstructure:"NOTIFY_WEBHOOK_URL"`
}
