package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBType      string        `mapstructure:"DB_TYPE"` // sqlite, postgres, mysql
	DSN         string        `mapstructure:"DSN"`
	SessionFile string        `mapstructure:"SESSION_FILE"`
	LogLevel    string        `mapstructure:"LOG_LEVEL"`
	Port        int           `mapstructure:"PORT"`
	BcryptCost  int           `mapstructure:"BCRYPT_COST"`
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	TokenExpiry time.Duration `mapstructure:"TOKEN_EXPIRY"`

	// SeedDemo creates the three demo accounts at startup when absent.
	SeedDemo bool `mapstructure:"SEED_DEMO"`

	// Lockout settings; REDIS_ADDR empty selects the in-memory store.
	LockoutMaxFailures int           `mapstructure:"LOCKOUT_MAX_FAILURES"`
	LockoutDuration    time.Duration `mapstructure:"LOCKOUT_DURATION"`
	LockoutWindow      time.Duration `mapstructure:"LOCKOUT_WINDOW"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("DB_TYPE", "sqlite")
	viper.SetDefault("DSN", "authcore.db")
	viper.SetDefault("SESSION_FILE", "session.json")
	viper.SetDefault("BCRYPT_COST", 14)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TOKEN_EXPIRY", "24h")
	viper.SetDefault("SEED_DEMO", false)
	viper.SetDefault("LOCKOUT_MAX_FAILURES", 5)
	viper.SetDefault("LOCKOUT_DURATION", "15m")
	viper.SetDefault("LOCKOUT_WINDOW", "15m")
	viper.SetDefault("REDIS_ADDR", "")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
