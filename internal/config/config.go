// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
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

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable; every variable has a default so the service
// starts with no configuration at all.
type Config struct {
	Env             string        // APP_ENV (dev/test/prod)
	Host            string        // APP_HOST, bind address
	Port            string        // APP_PORT
	CORSOrigins     []string      // CORS_ORIGINS, comma separated; "*" allows any origin
	CatalogFile     string        // CATALOG_FILE, empty uses the embedded catalog
	LogLevel        string        // LOG_LEVEL (trace..panic)
	LogFormat       string        // LOG_FORMAT (text|json)
	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT

	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Broker    BrokerConfig
}

// Addr is the host:port the HTTP server binds to.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// BrokerConfig controls publishing booking messages to RabbitMQ and the
// optional in-process consumer that writes them to a log file.
type BrokerConfig struct {
	URL             string // RABBITMQ_URL or AMQP_URL; empty disables publishing
	Queue           string // BOOKING_QUEUE
	ConsumerEnabled bool   // BOOKING_CONSUMER_ENABLED
	LogPath         string // BOOKING_LOG_PATH
}

// Load reads a .env file from the working directory when present, then
// builds a Config from the environment.  Variables already set in the
// environment win over the file.  Malformed values are reported together.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	p := &parser{}
	cfg := Config{
		Env:             p.str("APP_ENV", "dev"),
		Host:            p.str("APP_HOST", "0.0.0.0"),
		Port:            p.port("APP_PORT", "5000"),
		CORSOrigins:     parseCSV(p.str("CORS_ORIGINS", "*")),
		CatalogFile:     p.str("CATALOG_FILE", ""),
		LogLevel:        p.str("LOG_LEVEL", "info"),
		LogFormat:       p.oneOf("LOG_FORMAT", "text", "text", "json"),
		ShutdownTimeout: p.dur("SHUTDOWN_TIMEOUT", 10*time.Second),
		Redis:           loadRedisConfig(p),
		Cache:           loadCacheConfig(p),
		RateLimit:       loadRateLimitConfig(p),
		Broker: BrokerConfig{
			URL:             firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
			Queue:           p.str("BOOKING_QUEUE", "booking.events"),
			ConsumerEnabled: p.boolean("BOOKING_CONSUMER_ENABLED", false),
			LogPath:         p.str("BOOKING_LOG_PATH", "logs/booking.log"),
		},
	}
	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parser collects every malformed variable instead of stopping at the
// first one.
type parser struct {
	errs []error
}

func (p *parser) fail(key, val, want string) {
	p.errs = append(p.errs, fmt.Errorf("invalid %s for %s: %q", want, key, val))
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) oneOf(key, def string, allowed ...string) string {
	v := strings.ToLower(p.str(key, def))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	p.fail(key, v, "value")
	return def
}

func (p *parser) port(key, def string) string {
	v := p.str(key, def)
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 65535 {
		p.fail(key, v, "port")
		return def
	}
	return v
}

func (p *parser) integer(key string, def int) int {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, "int")
		return def
	}
	return n
}

func (p *parser) dur(key string, def time.Duration) time.Duration {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, "duration")
		return def
	}
	return d
}

func (p *parser) boolean(key string, def bool) bool {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	p.fail(key, v, "bool")
	return def
}

func parseCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
