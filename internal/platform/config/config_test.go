package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuananh0303/DATN-sub000/internal/platform/config"
)

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Timezone)
	assert.Equal(t, 900*time.Second, cfg.DraftCountdown)
	assert.Equal(t, 15*time.Minute, cfg.DraftTTL)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.True(t, cfg.EmbeddedReservations())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DRAFT_COUNTDOWN", "10m")
	t.Setenv("RESERVATION_SERVICE_URL", "http://reservations:8000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.AppPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 10*time.Minute, cfg.DraftCountdown)
	assert.False(t, cfg.EmbeddedReservations())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		AppPort:                   "8080",
		Timezone:                  "UTC",
		ReservationServiceTimeout: time.Second,
		DraftCountdown:            time.Minute,
		DraftTTL:                  time.Minute,
		SessionIdleTTL:            time.Minute,
		RateLimitPerMin:           10,
	}
	assert.NoError(t, valid.Validate())

	badZone := valid
	badZone.Timezone = "Mars/Olympus"
	assert.Error(t, badZone.Validate())

	badTTL := valid
	badTTL.DraftTTL = 0
	assert.ErrorContains(t, badTTL.Validate(), "DRAFT_TTL")

	badRate := valid
	badRate.RateLimitPerMin = 0
	assert.ErrorContains(t, badRate.Validate(), "RATE_LIMIT_PER_MIN")
}
