// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/iliyamo/court-booking/internal/database"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable named in its envconfig tag.
type Config struct {
	Env  string `envconfig:"APP_ENV" default:"dev"`
	Port string `envconfig:"APP_PORT" default:"8080"`

	// DBDriver is mysql, postgres or sqlite. DBDSN wins over the split
	// DB_* fields, which only describe a MySQL connection.
	DBDriver    string `envconfig:"DB_DRIVER" default:"mysql"`
	DBDSN       string `envconfig:"DB_DSN"`
	DBUser      string `envconfig:"DB_USER"`
	DBPass      string `envconfig:"DB_PASS"`
	DBHost      string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort      string `envconfig:"DB_PORT" default:"3306"`
	DBName      string `envconfig:"DB_NAME"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	JWTSecret      string `envconfig:"JWT_SECRET" required:"true"`
	AccessTTLMin   int    `envconfig:"ACCESS_TOKEN_TTL_MIN" default:"15"`
	RefreshTTLDays int    `envconfig:"REFRESH_TOKEN_TTL_DAYS" default:"30"`
	BcryptCost     int    `envconfig:"BCRYPT_COST" default:"10"`

	// AdminBootstrapEmail is granted the admin role when it signs up.
	AdminBootstrapEmail string `envconfig:"ADMIN_BOOTSTRAP_EMAIL"`

	RabbitMQURL     string `envconfig:"RABBITMQ_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"court-booking"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

// Load reads an optional .env file and decodes the environment into a Config.
// Variables already present in the environment take precedence over .env.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// a missing .env is normal outside local development
		_ = godotenv.Load(f)
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	c.RateLimit.normalize()
	c.Cache.normalize()
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case database.DriverMySQL:
		if c.DBDSN == "" && (c.DBUser == "" || c.DBName == "") {
			return errors.New("config: DB_DSN or DB_USER and DB_NAME are required for mysql")
		}
	case database.DriverPostgres, database.DriverSQLite:
		if c.DBDSN == "" {
			return fmt.Errorf("config: DB_DSN is required for %s", c.DBDriver)
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.AccessTTLMin <= 0 || c.RefreshTTLDays <= 0 {
		return errors.New("config: token TTLs must be positive")
	}
	c.AdminBootstrapEmail = strings.ToLower(strings.TrimSpace(c.AdminBootstrapEmail))
	return nil
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return database.MySQLDSN(c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}
