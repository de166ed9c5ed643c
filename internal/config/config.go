package config

import (
	"fmt"
	"strconv"
	"strings"

	pkgconfig "github.com/NozadzeJaba/restorani/pkg/config"
)

// CategoryOption is one entry of the menu's category bar.
type CategoryOption struct {
	ID   int
	Name string
}

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Restaurant API upstream
	RestaurantAPIURL string `env:"RESTAURANT_API_URL" envDefault:"https://restaurant.stepprojects.ge/api"`
	RemoteTimeout    int    `env:"RESTAURANT_API_TIMEOUT_SECONDS" envDefault:"15"`
	// Basket mutations are not idempotent upstream, so retries stay off
	// unless explicitly enabled.
	RemoteMaxRetries int  `env:"RESTAURANT_API_MAX_RETRIES" envDefault:"0"`
	BreakerEnabled   bool `env:"RESTAURANT_API_BREAKER_ENABLED" envDefault:"true"`

	// Redis (session state)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session TTL in hours (default: 7 days)
	SessionTTL int `env:"SESSION_TTL_HOURS" envDefault:"168"`

	// Category bar entries as "id:Name" pairs. The remote API has no
	// category-listing endpoint, so the menu's category buttons come from
	// configuration.
	CategoryOptions []string `env:"CATEGORY_OPTIONS" envDefault:"1:Salads,2:Main dishes,3:Soups,4:Desserts,5:Drinks" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.RestaurantAPIURL == "" {
		return fmt.Errorf("RESTAURANT_API_URL is required")
	}
	if c.RemoteMaxRetries < 0 {
		return fmt.Errorf("RESTAURANT_API_MAX_RETRIES must not be negative")
	}
	if _, err := c.Categories(); err != nil {
		return err
	}
	return nil
}

// Categories parses the configured "id:Name" pairs.
func (c *Config) Categories() ([]CategoryOption, error) {
	opts := make([]CategoryOption, 0, len(c.CategoryOptions))
	for _, raw := range c.CategoryOptions {
		id, name, ok := strings.Cut(strings.TrimSpace(raw), ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid category option %q, want id:Name", raw)
		}
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("invalid category id in %q: %w", raw, err)
		}
		opts = append(opts, CategoryOption{ID: n, Name: name})
	}
	return opts, nil
}
