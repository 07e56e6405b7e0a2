package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the public response cache. When Enabled
// is false or no Redis client is available, caching is disabled.
// KeyStrategy determines which parts of the request contribute to the key.
type CacheConfig struct {
	Enabled      bool          `envconfig:"CACHE_ENABLED" default:"true"`
	MethodList   []string      `envconfig:"CACHE_METHODS" default:"GET"`
	TTL          time.Duration `envconfig:"CACHE_TTL" default:"30s"`
	KeyStrategy  string        `envconfig:"CACHE_KEY_STRATEGY" default:"route_query"`
	Prefix       string        `envconfig:"CACHE_PREFIX" default:"cache"`
	MaxBodyBytes int           `envconfig:"CACHE_MAX_BODY_BYTES" default:"1048576"`

	Methods map[string]bool `ignored:"true"`
}

func (c *CacheConfig) normalize() {
	c.Methods = map[string]bool{}
	for _, m := range c.MethodList {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			c.Methods[m] = true
		}
	}
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	if c.Prefix == "" {
		c.Prefix = "cache"
	}
}
