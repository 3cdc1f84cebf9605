package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config holds every environment-driven setting, read once at startup and
// injected into services. Nothing below this package reads os.Getenv.
type Config struct {
	Port        string
	FrontendURL string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	RedisAddr string

	SepayAPIKey     string
	SepaySecretKey  string
	SepayBaseURL    string
	SepayQRBaseURL  string
	SepayWebhookURL string

	BankAccountNumber string
	BankAccountName   string
	BankName          string

	PaymentExpiry time.Duration
}

func Load() *Config {
	expiryHours := 24
	if raw := os.Getenv("PAYMENT_EXPIRY_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			expiryHours = parsed
		}
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		DBUser: getEnv("DB_USER", "root"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: getEnv("DB_HOST", "127.0.0.1"),
		DBPort: getEnv("DB_PORT", "3306"),
		DBName: getEnv("DB_NAME", "clinic_app"),

		RedisAddr: getEnv("REDIS_ADDR", "127.0.0.1:6379"),

		SepayAPIKey:     os.Getenv("SEPAY_API_KEY"),
		SepaySecretKey:  os.Getenv("SEPAY_SECRET_KEY"),
		SepayBaseURL:    getEnv("SEPAY_BASE_URL", "https://my.sepay.vn/userapi"),
		SepayQRBaseURL:  getEnv("SEPAY_QR_BASE_URL", "https://qr.sepay.vn/img"),
		SepayWebhookURL: os.Getenv("SEPAY_WEBHOOK_URL"),

		BankAccountNumber: os.Getenv("BANK_ACCOUNT_NUMBER"),
		BankAccountName:   os.Getenv("BANK_ACCOUNT_NAME"),
		BankName:          getEnv("BANK_NAME", "MBBank"),

		PaymentExpiry: time.Duration(expiryHours) * time.Hour,
	}
}

// InitDB opens the MySQL connection described by cfg.
func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
