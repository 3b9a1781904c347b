package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache used on the dental
// record statistics endpoint.  Caching is off when Enabled is false or no
// Redis client is available.  Only the listed Methods are cached.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("STATS_CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("STATS_CACHE_METHODS", "GET")),
		TTL:          envDur("STATS_CACHE_TTL", 30*time.Second),
		Prefix:       envStr("STATS_CACHE_PREFIX", "odonto:cache"),
		MaxBodyBytes: envInt("STATS_CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
