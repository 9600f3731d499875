package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/layer-3/walletauth/core"
)

const (
	DefaultHTTPAddr           = ":9000"
	DefaultCookieName         = "st_wallet_session"
	DefaultNonceTTL           = 5 * time.Minute
	DefaultSessionTTL         = 7 * 24 * time.Hour
	DefaultChallengeRateLimit = 30 // per IP per minute
	MinSecretLength           = 32

	EnvProduction = "production"
)

// ErrMissingSecret is returned when no session signing secret is configured
var ErrMissingSecret = errors.New("WALLET_AUTH_SECRET is required")

// Config holds runtime settings, read from the environment
type Config struct {
	Env      string
	AppName  string
	HTTPAddr string
	LogLevel string

	// Secret signs session tokens. Required.
	Secret []byte

	// RedisURL enables the Redis nonce store and event stream when set.
	RedisURL string

	SignatureScheme string
	NonceTTL        time.Duration
	SessionTTL      time.Duration

	CookieName   string
	CookieDomain string

	CORSOrigins        []string
	ChallengeRateLimit int

	// TrustedProxies lists proxy IPs or CIDRs allowed to set X-Forwarded-For.
	// Empty trusts no proxy.
	TrustedProxies []string
}

// Production reports whether cookies must be marked Secure
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// Load reads the configuration from the process environment
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Env:             getenv("APP_ENV"),
		AppName:         getenv("APP_NAME"),
		HTTPAddr:        getenv("HTTP_ADDR"),
		LogLevel:        getenv("LOG_LEVEL"),
		Secret:          []byte(getenv("WALLET_AUTH_SECRET")),
		RedisURL:        getenv("REDIS_URL"),
		SignatureScheme: strings.ToLower(getenv("SIGNATURE_SCHEME")),
		CookieName:      getenv("COOKIE_NAME"),
		CookieDomain:    getenv("COOKIE_DOMAIN"),
	}

	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("WALLET_AUTH_SECRET must be at least %d bytes", MinSecretLength)
	}

	var err error
	if cfg.NonceTTL, err = duration(getenv, "NONCE_TTL", DefaultNonceTTL); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = duration(getenv, "SESSION_TTL", DefaultSessionTTL); err != nil {
		return nil, err
	}

	cfg.ChallengeRateLimit = DefaultChallengeRateLimit
	if v := getenv("CHALLENGE_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid CHALLENGE_RATE_LIMIT %q", v)
		}
		cfg.ChallengeRateLimit = n
	}

	cfg.CORSOrigins = list(getenv("CORS_ORIGINS"))

	cfg.TrustedProxies = list(getenv("TRUSTED_PROXIES"))
	for _, p := range cfg.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", p)
		}
	}

	cfg.normalize()

	return cfg, nil
}

func (c *Config) normalize() {
	if c.Env == "" {
		c.Env = "dev"
	}
	if c.AppName == "" {
		c.AppName = core.DefaultAppName
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	if c.CookieName == "" {
		c.CookieName = DefaultCookieName
	}
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}

	return d, nil
}

func list(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}
