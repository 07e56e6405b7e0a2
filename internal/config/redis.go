package config

// Redis is used for distributed rate limiting and the public response
// cache. When the server cannot be reached at startup the client is nil
// and callers degrade by disabling both.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the Redis connection. Addr wins unless both Host
// and Port are set.
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Host     string `envconfig:"REDIS_HOST"`
	Port     string `envconfig:"REDIS_PORT"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	TLS      bool   `envconfig:"REDIS_TLS" default:"false"`
}

// Address resolves the host:port to dial.
func (r RedisConfig) Address() string {
	if r.Host != "" && r.Port != "" {
		return r.Host + ":" + r.Port
	}
	return r.Addr
}

// NewRedisClient connects and pings. The returned client is nil when Redis
// is disabled or unreachable.
func NewRedisClient(rc RedisConfig) *redis.Client {
	if !rc.Enabled {
		return nil
	}
	var tlsConf *tls.Config
	if rc.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      rc.Address(),
		Password:  rc.Password,
		DB:        rc.DB,
		TLSConfig: tlsConf,
	})
	// Ping the server with a short timeout. Return nil on failure.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
