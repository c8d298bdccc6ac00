package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	AuthCookieSecure bool

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	Billing  BillingConfig
	Pivot    PivotConfig
	Redision RedisionConfig
}

// BillingConfig carries the billing constants used by aggregation and
// invoicing. The USD rate is a fixed constant, not a live quote.
type BillingConfig struct {
	DefaultUnitPrice int64
	VATRatePercent   int64
	IDRPerUSD        int64
	ReportingTZ      string
}

// ReportingLocation resolves the reporting timezone, falling back to UTC
// when the zone database does not know the configured name.
func (b BillingConfig) ReportingLocation() *time.Location {
	loc, err := time.LoadLocation(b.ReportingTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PivotConfig configures the Pivot payment status API (bearer-token polling).
type PivotConfig struct {
	BaseURL        string
	MerchantID     string
	MerchantSecret string
}

// RedisionConfig configures the Redision checkout gateway (signed create calls).
type RedisionConfig struct {
	BaseURL     string
	AppKey      string
	AppID       string
	AppSecret   string
	NotifyURL   string
	RedirectURL string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	cfg := Config{
		AppName:          getenv("APP_SERVICE", "smscentra-portal"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,
		DBType:           getenv("DATABASE_TYPE", "postgres"),
		DBHost:           getenv("DATABASE_HOST", "localhost"),
		DBPort:           getenv("DATABASE_PORT", "5432"),
		DBName:           getenv("DATABASE_NAME", "portal"),
		DBUser:           getenv("DATABASE_USER", "postgres"),
		DBPassword:       getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:        getenv("DATABASE_SSLMODE", "disable"),
		Billing: BillingConfig{
			DefaultUnitPrice: getenvInt64("BILLING_SMS_UNIT_PRICE", 500),
			VATRatePercent:   getenvInt64("BILLING_VAT_RATE_PERCENT", 11),
			IDRPerUSD:        getenvInt64("BILLING_IDR_PER_USD", 15500),
			ReportingTZ:      getenv("BILLING_REPORTING_TZ", "Asia/Jakarta"),
		},
		Pivot: PivotConfig{
			BaseURL:        getenv("PIVOT_BASE_URL", "https://api.pivot-payment.com"),
			MerchantID:     strings.TrimSpace(getenv("PIVOT_MERCHANT_ID", "")),
			MerchantSecret: strings.TrimSpace(getenv("PIVOT_MERCHANT_SECRET", "")),
		},
		Redision: RedisionConfig{
			BaseURL:     getenv("REDISION_BASE_URL", "https://sandbox-payment.redision.com"),
			AppKey:      strings.TrimSpace(getenv("REDISION_APPKEY", "")),
			AppID:       strings.TrimSpace(getenv("REDISION_APPID", "")),
			AppSecret:   strings.TrimSpace(getenv("REDISION_APPSECRET", "")),
			NotifyURL:   getenv("REDISION_NOTIFY_URL", ""),
			RedirectURL: getenv("REDISION_REDIRECT_URL", ""),
		},
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
