package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string
	Port            string
	Env             string
	JWTSecret       string
	TokenTTL        time.Duration
	CORSOrigins     string
	OptionsCacheTTL time.Duration
	OptionsRefresh  string // cron expression for the form-options cache refresh
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           os.Getenv("PORT"),
		Env:            os.Getenv("ENV"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		CORSOrigins:    os.Getenv("CORS_ORIGINS"),
		OptionsRefresh: os.Getenv("OPTIONS_REFRESH_CRON"),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "*"
	}
	if cfg.OptionsRefresh == "" {
		cfg.OptionsRefresh = "@every 15m"
	}

	cfg.TokenTTL = hoursFromEnv("TOKEN_TTL_HOURS", 24)
	cfg.OptionsCacheTTL = minutesFromEnv("OPTIONS_CACHE_TTL_MINUTES", 15)

	return cfg
}

func hoursFromEnv(key string, fallback int) time.Duration {
	return time.Duration(intFromEnv(key, fallback)) * time.Hour
}

func minutesFromEnv(key string, fallback int) time.Duration {
	return time.Duration(intFromEnv(key, fallback)) * time.Minute
}

func intFromEnv(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}
