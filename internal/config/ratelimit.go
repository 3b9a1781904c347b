package config

import "time"

// RateLimitConfig drives the Redis token bucket placed in front of the login
// endpoint.  Capacity is the burst size; RefillTokens are added every
// RefillInterval.  Keys expire after TTL of inactivity.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string // parts joined by "_": ip, user, route
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig reads LOGIN_RATE_LIMIT_* variables.  The defaults allow
// a burst of ten attempts and one more every six seconds per client.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("LOGIN_RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("LOGIN_RATE_LIMIT_CAPACITY", 10),
		RefillTokens:   envInt("LOGIN_RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("LOGIN_RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
		TTL:            envDur("LOGIN_RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("LOGIN_RATE_LIMIT_KEY_STRATEGY", "ip_route"),
		Prefix:         envStr("LOGIN_RATE_LIMIT_PREFIX", "odonto:rl"),
		Debug:          envBool("LOGIN_RATE_LIMIT_DEBUG", false),
	}
	cfg.clamp()
	return cfg
}

// clamp keeps the bucket usable whatever the environment says.  A bucket key
// must outlive at least a few refill periods or it would reset to full.
func (c *RateLimitConfig) clamp() {
	c.Capacity = max(c.Capacity, 1)
	c.RefillTokens = max(c.RefillTokens, 1)
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	c.TTL = max(c.TTL, 5*c.RefillInterval)
}
