package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the runtime settings of the colony server.
type Config struct {
	AppPort      string
	DBDriver     string
	DatabaseDSN  string
	SessionKey   string
	SessionTTL   time.Duration
	RememberTTL  time.Duration
	StoreTimeout time.Duration
	BcryptCost   int
	SeedPassword string
	CookieSecure bool
	RabbitMQURL  string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "db/mars.db")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("REMEMBER_TTL", 365*24*time.Hour)
	v.SetDefault("STORE_TIMEOUT", 5*time.Second)
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("SEED_PASSWORD", "")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("RABBITMQ_URL", "") // Events are disabled when empty
}

// Load reads the configuration from the environment, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:      v.GetString("APP_PORT"),
		DBDriver:     v.GetString("DB_DRIVER"),
		DatabaseDSN:  v.GetString("DATABASE_DSN"),
		SessionKey:   v.GetString("SESSION_SECRET"),
		SessionTTL:   v.GetDuration("SESSION_TTL"),
		RememberTTL:  v.GetDuration("REMEMBER_TTL"),
		StoreTimeout: v.GetDuration("STORE_TIMEOUT"),
		BcryptCost:   v.GetInt("BCRYPT_COST"),
		SeedPassword: v.GetString("SEED_PASSWORD"),
		CookieSecure: v.GetBool("COOKIE_SECURE"),
		RabbitMQURL:  v.GetString("RABBITMQ_URL"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no safe fallback.
func (c *Config) Validate() error {
	if c.SessionKey == "" {
		return fmt.Errorf("SESSION_SECRET must be set")
	}
	if len(c.SessionKey) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}
	if c.SessionTTL <= 0 || c.RememberTTL <= 0 {
		return fmt.Errorf("SESSION_TTL and REMEMBER_TTL must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
