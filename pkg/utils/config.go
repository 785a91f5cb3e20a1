package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Razorpay  RazorpayConfig
	Pricing   PricingConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Kafka     KafkaConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	CORSOrigins []string

	// TrustedProxies are CIDRs or IPs allowed to set X-Forwarded-For.
	TrustedProxies []string
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	SQLitePath  string
	AutoMigrate bool
}

// RazorpayConfig holds gateway credentials. Only KeyID is ever sent to clients.
type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
	Timeout       time.Duration
}

type PricingConfig struct {
	File string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type KafkaConfig struct {
	Brokers      []string
	PaymentTopic string
}

type AdminConfig struct {
	Username     string
	PasswordHash string
}

func LoadConfig() (*Config, error) {
	return loadConfig(".env")
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "counsel-checkout")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SQLITE_PATH", "data/checkout.db")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com")
	v.SetDefault("GATEWAY_TIMEOUT_SECONDS", 5)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("KAFKA_PAYMENT_TOPIC", "payments.events")
	v.SetDefault("ADMIN_USERNAME", "admin")

	// .env is optional, the process environment always wins
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Port:        v.GetString("PORT"),
			Debug:       v.GetBool("DEBUG"),
			LogPath:     v.GetString("LOG_PATH"),
			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(v.GetString("DB_DRIVER")),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			SQLitePath:  v.GetString("SQLITE_PATH"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Razorpay: RazorpayConfig{
			KeyID:         v.GetString("RAZORPAY_KEY_ID"),
			KeySecret:     v.GetString("RAZORPAY_KEY_SECRET"),
			WebhookSecret: v.GetString("RAZORPAY_WEBHOOK_SECRET"),
			BaseURL:       v.GetString("RAZORPAY_BASE_URL"),
			Timeout:       time.Duration(v.GetInt("GATEWAY_TIMEOUT_SECONDS")) * time.Second,
		},
		Pricing: PricingConfig{
			File: v.GetString("PRICING_FILE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(v.GetString("KAFKA_BROKERS")),
			PaymentTopic: v.GetString("KAFKA_PAYMENT_TOPIC"),
		},
		Admin: AdminConfig{
			Username:     v.GetString("ADMIN_USERNAME"),
			PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		},
	}

	return config, nil
}

// Validate reports configuration that must stop the service from starting.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Razorpay.KeyID) == "" {
		missing = append(missing, "RAZORPAY_KEY_ID")
	}
	if strings.TrimSpace(c.Razorpay.KeySecret) == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if strings.TrimSpace(c.Razorpay.WebhookSecret) == "" {
		missing = append(missing, "RAZORPAY_WEBHOOK_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.Razorpay.KeySecret == c.Razorpay.WebhookSecret {
		return fmt.Errorf("RAZORPAY_WEBHOOK_SECRET must differ from RAZORPAY_KEY_SECRET")
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Razorpay.Timeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT_SECONDS must be positive")
	}

	return nil
}

// PostgresDSN is the keyword/value connection string used by pgxpool.
func (c DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
		c.User, c.Password, c.Name, c.Host, c.Port)
}

// PostgresURL is the URL form golang-migrate expects for the pgx/v5 driver.
func (c DatabaseConfig) PostgresURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
