// Package config loads and validates all environment variables at startup.
// Every other package receives typed values — nothing reads os.Getenv directly.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port string // default "8080"
	Env  string // "development" | "staging" | "production"

	// ── Stripe ────────────────────────────────────────────────────────────────
	StripeSecretKey     string
	StripeWebhookSecret string

	// ── Outbound mail ─────────────────────────────────────────────────────────
	// SenderEmail is the From address on every outgoing message. With the
	// Gmail provider it must be the mailbox the OAuth credentials authorize.
	SenderEmail string

	// Gmail OAuth2 credentials. Required unless SMTPHost is set.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GoogleRefreshToken string

	// SMTP settings. When SMTPHost is non-empty the SMTP provider is used
	// instead of Gmail.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	// ── Branding ──────────────────────────────────────────────────────────────
	// These feed the email templates and the billing-portal return URL.
	BrandName  string // default "Yokweb"
	AccountURL string // portal return URL + account CTA
	PricingURL string // trial-ending CTA
	LogoURL    string // header image in every template

	// ── Dispatch ──────────────────────────────────────────────────────────────
	WorkerCount     int           // default 3
	DispatchTimeout time.Duration // per-delivery deadline, default 30s
}

// Load reads all environment variables and returns a validated Config.
// A .env file in the working directory is loaded first when present, so
// plain `go run ./cmd/api` works in development without any wrapper.
// Real environment variables always take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing file is fine

	c := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SenderEmail:         os.Getenv("SENDER_EMAIL"),
		GoogleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:   os.Getenv("GOOGLE_REDIRECT_URI"),
		GoogleRefreshToken:  os.Getenv("GOOGLE_REFRESH_TOKEN"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		BrandName:           getEnv("BRAND_NAME", "Yokweb"),
		AccountURL:          getEnv("ACCOUNT_URL", "https://yokweb.com/account"),
		PricingURL:          getEnv("PRICING_URL", "https://yokweb.com/pricing"),
		LogoURL:             getEnv("LOGO_URL", "https://yokweb.com/yokweb-logo.png"),
		WorkerCount:         getEnvAsInt("WORKER_COUNT", 3),
		DispatchTimeout:     getEnvAsDuration("DISPATCH_TIMEOUT", 30*time.Second),
	}

	return c, c.validate()
}

// UseSMTP reports whether the SMTP provider should be used for delivery.
func (c *Config) UseSMTP() bool {
	return c.SMTPHost != ""
}

func (c *Config) validate() error {
	var errs []error

	// Serving without these means accepting unverifiable webhooks — refuse
	// to start rather than run insecurely.
	required := map[string]string{
		"STRIPE_SECRET_KEY":     c.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET": c.StripeWebhookSecret,
		"SENDER_EMAIL":          c.SenderEmail,
	}

	for name, val := range required {
		if val == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", name))
		}
	}

	if !c.UseSMTP() {
		gmailRequired := map[string]string{
			"GOOGLE_CLIENT_ID":     c.GoogleClientID,
			"GOOGLE_CLIENT_SECRET": c.GoogleClientSecret,
			"GOOGLE_REFRESH_TOKEN": c.GoogleRefreshToken,
		}
		for name, val := range gmailRequired {
			if val == "" {
				errs = append(errs, fmt.Errorf("missing required env var: %s (or set SMTP_HOST to use SMTP instead)", name))
			}
		}
	}

	return errors.Join(errs...)
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	// Try a plain integer first (treated as seconds, minutes, or hours
	// depending on the variable name).
	if value, err := strconv.Atoi(valueStr); err == nil {
		switch {
		case strings.Contains(key, "HOURS"):
			return time.Duration(value) * time.Hour
		case strings.Contains(key, "MINUTES"):
			return time.Duration(value) * time.Minute
		default:
			return time.Duration(value) * time.Second
		}
	}
	// Fall back to Go duration syntax: "30s", "5m", "1h", etc.
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
