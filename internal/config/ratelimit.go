package config

import "time"

// RateLimitConfig configures the Redis token bucket applied to booking
// endpoints.  Each key starts with Capacity tokens and regains
// RefillTokens every RefillInterval.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

func loadRateLimitConfig(p *parser) RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        p.boolean("RATE_LIMIT_ENABLED", true),
		Capacity:       p.integer("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   p.integer("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: p.dur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            p.dur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    p.str("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
		Prefix:         p.str("RATE_LIMIT_PREFIX", "tickethub:rl"),
		Debug:          p.boolean("RATE_LIMIT_DEBUG", false),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
