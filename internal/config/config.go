package config

import (
	"fmt"
	"os"
	"strings"

	"flipforma-backend/internal/infrastructure/storage"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string
	RedisURL            string
	RedisKeyPrefix      string
	StorageBackend      string // redis | database | file
	StorageFilePath     string
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
	LogLevel            zerolog.Level
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORAGE_BACKEND", storage.BackendFile)
	v.SetDefault("STORAGE_FILE_PATH", storage.DefaultFilePath)
	v.SetDefault("REDIS_KEY_PREFIX", storage.DefaultRedisPrefix)
	v.SetDefault("LOG_LEVEL", "info")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	env := v.GetString("APP_ENV")

	dbURL := v.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = v.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = v.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	backend, err := storage.ParseBackend(v.GetString("STORAGE_BACKEND"))
	if err != nil {
		return nil, err
	}
	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("LOG_LEVEL")))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Env:                 env,
		Port:                v.GetString("PORT"),
		DatabaseURL:         dbURL,
		RedisURL:            v.GetString("REDIS_URL"),
		RedisKeyPrefix:      v.GetString("REDIS_KEY_PREFIX"),
		StorageBackend:      backend,
		StorageFilePath:     v.GetString("STORAGE_FILE_PATH"),
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		LogLevel:            level,
	}
	return cfg, cfg.validate()
}

// validate checks that the chosen backend has what it needs to connect.
func (c *Config) validate() error {
	switch c.StorageBackend {
	case storage.BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("STORAGE_BACKEND=redis requires REDIS_URL")
		}
	case storage.BackendDatabase:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORAGE_BACKEND=database requires DATABASE_URL_%s", dbSuffix(c.Env))
		}
	}
	return nil
}

func dbSuffix(env string) string {
	switch env {
	case "production":
		return "PROD"
	case "test":
		return "TEST"
	}
	return "DEV"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
