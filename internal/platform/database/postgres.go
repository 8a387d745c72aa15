package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/tuananh0303/DATN-sub000/internal/platform/config"
)

const (
	maxConnectAttempts = 10
	connectRetryDelay  = 2 * time.Second
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

func FromAppConfig(c *config.Config) Config {
	return Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
	}
}

func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// NewPostgresDB opens the pool and pings it, retrying while the database
// container is still starting.
func NewPostgresDB(ctx context.Context, cfg Config, log *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 1; i <= maxConnectAttempts; i++ {
		log.Info("connecting to database", zap.String("host", cfg.Host), zap.Int("attempt", i), zap.Int("max_attempts", maxConnectAttempts))
		db, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = db.PingContext(ctx)
		}

		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(25)
			db.SetConnMaxLifetime(5 * time.Minute)
			log.Info("database connected")
			return db, nil
		}
		if db != nil {
			_ = db.Close()
		}

		log.Warn("database not ready", zap.Error(err), zap.Duration("retry_in", connectRetryDelay))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectRetryDelay):
		}
	}

	return nil, fmt.Errorf("connect database after %d attempts: %w", maxConnectAttempts, err)
}
