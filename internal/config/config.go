package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	DB      DBConfig
	Import  ImportConfig
}

type ServerConfig struct {
	Port       int
	CORSOrigin string
}

type LoggingConfig struct {
	Level string
}

type DBConfig struct {
	DSN string
}

type ImportConfig struct {
	// DefaultCurrency is assumed when a statement row carries no currency code.
	DefaultCurrency string
	// MaxUploadMB bounds the size of an uploaded statement file.
	MaxUploadMB int
	// VoucherUnitPrice is the price of one meal voucher, used to derive a
	// voucher count from a payment amount on approval.
	VoucherUnitPrice decimal.Decimal
}

// Load reads configuration from the environment with sane defaults.
// A .env file, if present, is loaded by main before this runs.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	unitPrice, err := decimal.NewFromString(v.GetString("VOUCHER_UNIT_PRICE"))
	if err != nil {
		return nil, fmt.Errorf("invalid VOUCHER_UNIT_PRICE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:       v.GetInt("SERVER_PORT"),
			CORSOrigin: v.GetString("CORS_ORIGIN"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			DSN: v.GetString("DATABASE_URL"),
		},
		Import: ImportConfig{
			DefaultCurrency:  v.GetString("IMPORT_DEFAULT_CURRENCY"),
			MaxUploadMB:      v.GetInt("IMPORT_MAX_UPLOAD_MB"),
			VoucherUnitPrice: unitPrice,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("IMPORT_DEFAULT_CURRENCY", "CZK")
	v.SetDefault("IMPORT_MAX_UPLOAD_MB", 10)
	v.SetDefault("VOUCHER_UNIT_PRICE", "150")
}

func (c *Config) validate() error {
	if c.DB.DSN == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Import.MaxUploadMB <= 0 {
		return fmt.Errorf("IMPORT_MAX_UPLOAD_MB must be positive, got %d", c.Import.MaxUploadMB)
	}
	return nil
}
