// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DBSource      string `mapstructure:"DB_SOURCE"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	Environement  string `mapstructure:"GO_ENV"`

	RatePrimaryURL      string        `mapstructure:"RATE_PRIMARY_URL"`
	RateFallbackURL     string        `mapstructure:"RATE_FALLBACK_URL"`
	RateTimeout         time.Duration `mapstructure:"RATE_TIMEOUT"`
	RateCacheTTL        time.Duration `mapstructure:"RATE_CACHE_TTL"`
	RateRefreshInterval time.Duration `mapstructure:"RATE_REFRESH_INTERVAL"`

	RedisAddress  string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	LedgerMaxRetries int `mapstructure:"LEDGER_MAX_RETRIES"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("GO_ENV", "production")
	v.SetDefault("RATE_PRIMARY_URL", "https://api.frankfurter.app/latest")
	v.SetDefault("RATE_FALLBACK_URL", "https://api.exchangerate-api.com/v4/latest")
	v.SetDefault("RATE_TIMEOUT", 3*time.Second)
	v.SetDefault("RATE_CACHE_TTL", 5*time.Second)
	v.SetDefault("RATE_REFRESH_INTERVAL", time.Duration(0))
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LEDGER_MAX_RETRIES", 3)
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	setDefaults(v)
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
