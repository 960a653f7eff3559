package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	customersapp "github.com/Apurer/storefront-console/internal/domains/customers/application"
	invoicesdomain "github.com/Apurer/storefront-console/internal/domains/invoices/domain"
	ordersapp "github.com/Apurer/storefront-console/internal/domains/orders/application"
)

const (
	defaultPurgeInterval = 15 * time.Minute
	defaultLoginPath     = "/login"
	defaultStoreName     = "Storefront"
)

// Config carries environment-driven settings for the console processes.
type Config struct {
	Port                 string
	LogLevel             string
	PostgresDSN          string
	DBLogLevel           string
	TemporalAddress      string
	TemporalNamespace    string
	TemporalDisabled     bool
	SessionSigningKey    string
	SessionTTL           time.Duration
	SessionPurgeInterval time.Duration
	IdempotencyTTL       time.Duration
	PublicBaseURL        string
	LoginPath            string
	StoreName            string
	Currency             string
	BootstrapAdmin       BootstrapAdmin
}

// BootstrapAdmin is an administrator account created at start-up when missing.
type BootstrapAdmin struct {
	Email    string
	Password string
}

func (b BootstrapAdmin) Enabled() bool {
	return b.Email != "" && b.Password != ""
}

// LoadConfig reads an optional .env file (ENV_FILE overrides the path), then the
// environment. Invalid numeric values fail fast.
func LoadConfig() (Config, error) {
	if err := loadDotEnv(envDefault("ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}
	port := envDefault("PORT", "8080")
	cfg := Config{
		Port:              port,
		LogLevel:          envDefault("LOG_LEVEL", "info"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		DBLogLevel:        envDefault("DB_LOG_LEVEL", "warn"),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SessionSigningKey: strings.TrimSpace(os.Getenv("SESSION_SIGNING_KEY")),
		PublicBaseURL:     strings.TrimRight(envDefault("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		LoginPath:         envDefault("LOGIN_PATH", defaultLoginPath),
		StoreName:         envDefault("STORE_NAME", defaultStoreName),
		Currency:          envDefault("STORE_CURRENCY", invoicesdomain.DefaultCurrency),
		BootstrapAdmin: BootstrapAdmin{
			Email:    strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_EMAIL")),
			Password: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		},
	}
	hours, err := positiveInt("SESSION_TTL_HOURS")
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = customersapp.DefaultSessionTTL
	if hours > 0 {
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	minutes, err := positiveInt("SESSION_PURGE_INTERVAL_MINUTES")
	if err != nil {
		return Config{}, err
	}
	cfg.SessionPurgeInterval = defaultPurgeInterval
	if minutes > 0 {
		cfg.SessionPurgeInterval = time.Duration(minutes) * time.Minute
	}
	keyHours, err := positiveInt("IDEMPOTENCY_TTL_HOURS")
	if err != nil {
		return Config{}, err
	}
	cfg.IdempotencyTTL = ordersapp.DefaultIdempotencyTTL
	if keyHours > 0 {
		cfg.IdempotencyTTL = time.Duration(keyHours) * time.Hour
	}
	if cfg.SessionSigningKey != "" && len(cfg.SessionSigningKey) < customersapp.MinSigningKeyBytes {
		return Config{}, fmt.Errorf("SESSION_SIGNING_KEY must be at least %d bytes", customersapp.MinSigningKeyBytes)
	}
	if !strings.HasPrefix(cfg.LoginPath, "/") {
		return Config{}, fmt.Errorf("LOGIN_PATH must start with '/'")
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// positiveInt returns 0 when key is unset.
func positiveInt(key string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
