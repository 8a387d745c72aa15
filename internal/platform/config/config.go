package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	Timezone string `mapstructure:"TIMEZONE"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Empty means the reservation service runs embedded on Postgres.
	ReservationServiceURL     string        `mapstructure:"RESERVATION_SERVICE_URL"`
	ReservationServiceTimeout time.Duration `mapstructure:"RESERVATION_SERVICE_TIMEOUT"`
	ReservationServiceRPS     float64       `mapstructure:"RESERVATION_SERVICE_RPS"`

	DraftCountdown  time.Duration `mapstructure:"DRAFT_COUNTDOWN"`
	DraftTTL        time.Duration `mapstructure:"DRAFT_TTL"`
	SessionIdleTTL  time.Duration `mapstructure:"SESSION_IDLE_TTL"`
	PaymentBaseURL  string        `mapstructure:"PAYMENT_BASE_URL"`
	RateLimitPerMin int64         `mapstructure:"RATE_LIMIT_PER_MIN"`
	CORSOrigins     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "Asia/Ho_Chi_Minh")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "field_booking")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("RESERVATION_SERVICE_URL", "")
	v.SetDefault("RESERVATION_SERVICE_TIMEOUT", "10s")
	v.SetDefault("RESERVATION_SERVICE_RPS", 20)

	v.SetDefault("DRAFT_COUNTDOWN", "900s")
	v.SetDefault("DRAFT_TTL", "15m")
	v.SetDefault("SESSION_IDLE_TTL", "30m")
	v.SetDefault("PAYMENT_BASE_URL", "http://localhost:8080/payments")
	v.SetDefault("RATE_LIMIT_PER_MIN", 100)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// Load reads .env (when present), an optional config.yaml from the working
// directory or ./config, then the environment, which wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("APP_PORT is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	durations := map[string]time.Duration{
		"RESERVATION_SERVICE_TIMEOUT": c.ReservationServiceTimeout,
		"DRAFT_COUNTDOWN":             c.DraftCountdown,
		"DRAFT_TTL":                   c.DraftTTL,
		"SESSION_IDLE_TTL":            c.SessionIdleTTL,
	}
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", key, d)
		}
	}
	if c.RateLimitPerMin <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be positive, got %d", c.RateLimitPerMin)
	}
	if c.ReservationServiceURL != "" && c.ReservationServiceRPS <= 0 {
		return fmt.Errorf("RESERVATION_SERVICE_RPS must be positive, got %v", c.ReservationServiceRPS)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location returns the facility time zone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// EmbeddedReservations reports whether drafts are kept in the local database
// rather than a remote reservation service.
func (c *Config) EmbeddedReservations() bool {
	return c.ReservationServiceURL == ""
}
