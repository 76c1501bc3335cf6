package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the Redis response cache placed in
// front of the catalog endpoints.  Methods lists the HTTP methods to cache.
// KeyStrategy determines which parts of the request contribute to the
// cache key: path, path_query (default), method_path or method_path_query.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

func loadCacheConfig(p *parser) CacheConfig {
	cfg := CacheConfig{
		Enabled:      p.boolean("CACHE_ENABLED", true),
		Methods:      parseMethods(p.str("CACHE_METHODS", "GET")),
		TTL:          p.dur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  p.str("CACHE_KEY_STRATEGY", "path_query"),
		Prefix:       p.str("CACHE_PREFIX", "tickethub:cache"),
		MaxBodyBytes: p.integer("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, part := range parseCSV(s) {
		m[strings.ToUpper(part)] = true
	}
	return m
}
