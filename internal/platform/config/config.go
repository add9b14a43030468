package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration for the session gateway.
type Server struct {
	Addr     string
	Env      string
	LogLevel string

	// JWTSigningKey signs the identity tokens minted by the built-in provider.
	JWTSigningKey string
	TokenTTL      time.Duration

	// ToastTTL bounds how long an undelivered toast stays queued before it
	// auto-dismisses.
	ToastTTL time.Duration

	// SignOutDelay is how long a profile-fetch failure waits before forcing
	// sign-out, giving the client time to show the error toast first.
	SignOutDelay time.Duration

	// SystemColorScheme is the theme applied when an installation has no
	// stored preference. Stands in for the device's reported color scheme.
	SystemColorScheme string

	// AuthRatePerMinute throttles credential attempts across the auth endpoints.
	AuthRatePerMinute int

	Redis RedisConfig
}

// RedisConfig holds connection settings for the optional Redis backend.
// An empty URL means in-memory stores are used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:              envOr("LOOKBOOK_ADDR", ":8080"),
		Env:               envOr("LOOKBOOK_ENV", "development"),
		LogLevel:          envOr("LOOKBOOK_LOG_LEVEL", "info"),
		JWTSigningKey:     envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:          envDurationOr("TOKEN_TTL", 15*time.Minute),
		ToastTTL:          envDurationOr("TOAST_TTL", 4*time.Second),
		SignOutDelay:      envDurationOr("SIGNOUT_DELAY", 3*time.Second),
		SystemColorScheme: envOr("SYSTEM_COLOR_SCHEME", "light"),
		AuthRatePerMinute: envIntOr("AUTH_RATE_PER_MINUTE", 10),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
