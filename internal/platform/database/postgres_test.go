package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuananh0303/DATN-sub000/internal/platform/config"
	"github.com/tuananh0303/DATN-sub000/internal/platform/database"
)

func TestDSN(t *testing.T) {
	cfg := database.FromAppConfig(&config.Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "booking",
		DBPassword: "p@ss:word",
		DBName:     "field_booking",
	})

	assert.Equal(t, "postgres://booking:p%40ss%3Aword@db:5432/field_booking?sslmode=disable", cfg.DSN())
}
