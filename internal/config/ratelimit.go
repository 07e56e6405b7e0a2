package config

import "time"

// RateLimitConfig drives the Redis token bucket in front of booking
// creation and the auth endpoints.
type RateLimitConfig struct {
	Enabled        bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Capacity       int           `envconfig:"RATE_LIMIT_CAPACITY" default:"30"`
	RefillTokens   int           `envconfig:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"2s"`
	TTL            time.Duration `envconfig:"RATE_LIMIT_TTL" default:"10m"`
	KeyStrategy    string        `envconfig:"RATE_LIMIT_KEY_STRATEGY" default:"ip_route"`
	Prefix         string        `envconfig:"RATE_LIMIT_PREFIX" default:"rl"`
	Debug          bool          `envconfig:"RATE_LIMIT_DEBUG" default:"false"`

	// Shorthands: BURST overrides Capacity, REFILL_EVERY means one token per interval.
	Burst       int           `envconfig:"RATE_LIMIT_BURST"`
	RefillEvery time.Duration `envconfig:"RATE_LIMIT_REFILL_EVERY"`
}

func (r *RateLimitConfig) normalize() {
	if r.Burst > 0 {
		r.Capacity = r.Burst
	}
	if r.RefillEvery > 0 {
		r.RefillTokens = 1
		r.RefillInterval = r.RefillEvery
	}
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	if minTTL := 5 * r.RefillInterval; r.TTL < minTTL {
		r.TTL = minTTL
	}
}
