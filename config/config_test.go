package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking/widget"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MYSQL_URL", "")
	t.Setenv("DATABASE_URL", "")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, widget.DefaultRequiredFields, cfg.Widget.RequiredFields)
	assert.Equal(t, "/checkout", cfg.Widget.CheckoutPath)
	assert.Equal(t, 30*time.Minute, cfg.Widget.SessionTTL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30, cfg.RateLimit.Limit)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("RATE_LIMIT_LIMIT", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "off")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("DATABASE_URL", "mysql://u:p@db/hotel")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, 172.16.0.0/12 ,")

	cfg := FromEnv()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.RateLimit.Limit)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, "mysql://u:p@db/hotel", cfg.Database.URL)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
}

func TestLoad_WidgetFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
widget:
  required_fields: [name, email]
  checkout_path: /book/checkout
  session_ttl: 10m
`), 0o600))

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("WIDGET_CONFIG", path)
	t.Setenv("WIDGET_SESSION_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "email"}, cfg.Widget.RequiredFields)
	assert.Equal(t, "/book/checkout", cfg.Widget.CheckoutPath)
	assert.Equal(t, "/sign-in", cfg.Widget.SignInPath, "unset keys keep their defaults")
	assert.Equal(t, 10*time.Minute, cfg.Widget.SessionTTL)

	opts := cfg.WidgetOptions(widget.QuickBookingOptions())
	assert.True(t, opts.SyncUser)
	assert.Equal(t, []string{"name", "email"}, opts.RequiredFields)
	assert.Equal(t, "/book/checkout", opts.CheckoutPath)
}

func TestLoad_MissingWidgetFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("WIDGET_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "error reading widget config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"zero ttl", func(c *Config) { c.Widget.SessionTTL = 0 }, "session ttl"},
		{"bad rate limit", func(c *Config) { c.RateLimit.Limit = 0 }, "rate limit"},
		{"disabled rate limit skips check", func(c *Config) { c.RateLimit.Enabled = false; c.RateLimit.Limit = 0 }, ""},
		{"empty required fields", func(c *Config) { c.Widget.RequiredFields = nil }, "cannot be empty"},
		{"trusted proxies", func(c *Config) { c.TrustedProxies = []string{"10.0.0.1", "::1", "192.168.0.0/16"} }, ""},
		{"bad trusted proxy", func(c *Config) { c.TrustedProxies = []string{"proxy.internal"} }, "invalid trusted proxy"},
		{"unknown field", func(c *Config) { c.Widget.RequiredFields = []string{"name", "shoeSize"} }, "shoeSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromEnv()
			cfg.JWTSecret = "secret"
			cfg.RateLimit.Enabled = true
			cfg.RateLimit.Limit = 10
			cfg.RateLimit.Window = time.Minute
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	dsn, err := DatabaseConfig{URL: "mysql://hotel:pw@db.local:3307/hotel_db"}.DSN()
	require.NoError(t, err)
	assert.Equal(t, "hotel:pw@tcp(db.local:3307)/hotel_db?charset=utf8mb4&loc=Local&parseTime=True", dsn)

	dsn, err = DatabaseConfig{URL: "mysql://hotel:pw@db.local/hotel_db"}.DSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "@tcp(db.local:3306)/")

	_, err = DatabaseConfig{URL: "mysql://hotel:pw@db.local/"}.DSN()
	assert.ErrorContains(t, err, "missing database name")

	dsn, err = DatabaseConfig{URL: "raw:dsn@tcp(x)/y"}.DSN()
	require.NoError(t, err)
	assert.Equal(t, "raw:dsn@tcp(x)/y", dsn)

	dsn, err = DatabaseConfig{User: "root", Pass: "pw", Host: "127.0.0.1", Port: "3306", Name: "hotel_db"}.DSN()
	require.NoError(t, err)
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/hotel_db?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestNewLogger(t *testing.T) {
	log := NewLogger("debug", nil)
	assert.Equal(t, "debug", log.GetLevel().String())

	log = NewLogger("loud", nil)
	assert.Equal(t, "info", log.GetLevel().String())
}

func TestNewRedisClient_Unconfigured(t *testing.T) {
	assert.Nil(t, NewRedisClient(RedisConfig{}, NewLogger("error", nil)))
}
