package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"hotel-booking/widget"
)

type DatabaseConfig struct {
	URL  string // MYSQL_URL or DATABASE_URL, takes precedence over the DB_* parts
	User string
	Pass string
	Host string
	Port string
	Name string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
	Prefix  string
}

// WidgetConfig is the part of the configuration that may come from the YAML
// file named by WIDGET_CONFIG.
type WidgetConfig struct {
	RequiredFields []string      `yaml:"required_fields"`
	CheckoutPath   string        `yaml:"checkout_path"`
	SignInPath     string        `yaml:"sign_in_path"`
	ReturnPath     string        `yaml:"return_path"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
}

type Config struct {
	Env         string
	Port        string
	LogLevel    string
	CORSOrigins string
	// TrustedProxies are the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the socket address is the client.
	TrustedProxies []string
	JWTSecret      string
	TokenTTL       time.Duration
	SeedData       bool

	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Widget    WidgetConfig
}

type fileConfig struct {
	Widget WidgetConfig `yaml:"widget"`
}

// Load reads .env (if present), the environment and the optional widget YAML
// file, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := FromEnv()

	if path := envStr("WIDGET_CONFIG", ""); path != "" {
		if err := cfg.loadWidgetFile(path); err != nil {
			return nil, err
		}
	}
	if ttl := envDur("WIDGET_SESSION_TTL", 0); ttl > 0 {
		cfg.Widget.SessionTTL = ttl
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	return &Config{
		Env:            envStr("APP_ENV", "development"),
		Port:           envStr("PORT", "8080"),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		CORSOrigins:    envStr("CORS_ORIGINS", ""),
		TrustedProxies: envList("TRUSTED_PROXIES"),
		JWTSecret:      envStr("JWT_SECRET", ""),
		TokenTTL:       envDur("JWT_TTL", 24*time.Hour),
		SeedData:       envBool("SEED_DATA", true),
		Database: DatabaseConfig{
			URL:  firstNonEmpty(envStr("MYSQL_URL", ""), envStr("DATABASE_URL", "")),
			User: envStr("DB_USER", "root"),
			Pass: envStr("DB_PASS", ""),
			Host: envStr("DB_HOST", "127.0.0.1"),
			Port: envStr("DB_PORT", "3306"),
			Name: envStr("DB_NAME", "hotel_db"),
		},
		Redis: RedisConfig{
			Addr:     redisAddr(),
			Password: envStr("REDIS_PASSWORD", ""),
			DB:       envInt("REDIS_DB", 0),
			TLS:      envBool("REDIS_TLS", false),
		},
		RateLimit: RateLimitConfig{
			Enabled: envBool("RATE_LIMIT_ENABLED", true),
			Limit:   envInt("RATE_LIMIT_LIMIT", 30),
			Window:  envDur("RATE_LIMIT_WINDOW", time.Minute),
			Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
		},
		Widget: WidgetConfig{
			RequiredFields: append([]string(nil), widget.DefaultRequiredFields...),
			CheckoutPath:   "/checkout",
			SignInPath:     "/sign-in",
			ReturnPath:     "/",
			SessionTTL:     30 * time.Minute,
		},
	}
}

func (c *Config) loadWidgetFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading widget config: %w", err)
	}

	fc := fileConfig{Widget: c.Widget}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("error parsing widget config: %w", err)
	}
	c.Widget = fc.Widget
	return nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("invalid trusted proxy: %q", p)
			}
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit < 1 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit needs a positive limit and window")
	}
	if c.Widget.SessionTTL <= 0 {
		return fmt.Errorf("widget session ttl must be positive")
	}
	if len(c.Widget.RequiredFields) == 0 {
		return fmt.Errorf("widget required_fields cannot be empty")
	}
	for _, f := range c.Widget.RequiredFields {
		if !knownField(f) {
			return fmt.Errorf("unknown widget required field: %q", f)
		}
	}
	return nil
}

// WidgetOptions applies the configured paths and required fields to a flow
// preset.
func (c *Config) WidgetOptions(base widget.Options) widget.Options {
	base.RequiredFields = append([]string(nil), c.Widget.RequiredFields...)
	base.CheckoutPath = c.Widget.CheckoutPath
	base.SignInPath = c.Widget.SignInPath
	base.ReturnPath = c.Widget.ReturnPath
	return base
}

func knownField(name string) bool {
	for _, f := range widget.DialogFields {
		if f == name {
			return true
		}
	}
	return false
}

func redisAddr() string {
	host := envStr("REDIS_HOST", "")
	port := envStr("REDIS_PORT", "")
	if host != "" && port != "" {
		return host + ":" + port
	}
	return envStr("REDIS_ADDR", "")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func envStr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envList(k string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(k), ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func envBool(k string, d bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(k)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
