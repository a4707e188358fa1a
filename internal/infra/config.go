package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	BootstrapDB bool

	AdminSecret string
	FrontendURL string
	CORSOrigin  string

	SMTPHost     string
	SMTPPort     int
	SMTPLogin    string
	SMTPPassword string
	SMTPFrom     string
	AdminEmail   string

	StripeSecretKey     string
	StripeWebhookSecret string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	MailWorkers      int
	MailQueueSize    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		BootstrapDB: getEnvBool("DB_BOOTSTRAP", true),

		AdminSecret: os.Getenv("ADMIN_SECRET"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPLogin:    os.Getenv("SMTP_LOGIN"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		MailWorkers:      getEnvInt("MAIL_WORKERS", 2),
		MailQueueSize:    getEnvInt("MAIL_QUEUE_SIZE", 64),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.AdminSecret == "" {
		return nil, fmt.Errorf("ADMIN_SECRET is required")
	}

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPLogin
	}

	return cfg, nil
}

// SMTPConfigured reports whether outgoing email can be attempted at all.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPLogin != "" && c.SMTPPassword != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
