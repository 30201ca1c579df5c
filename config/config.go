package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string

	MongoURL    string
	MongoDBName string

	JWTSecret   string
	TokenExpiry time.Duration

	CORSAllowedOrigins []string

	EmailProvider      string
	EmailFromAddress   string
	EmailFromName      string
	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
}

// Load loads configuration from environment variables.
// It attempts to load from a .env file if not in production.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the .env file usually does not exist and the system
	// environment is the source of truth.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:        env,
		Port:               getEnv("PORT", "8080"),
		MongoURL:           getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB_NAME", "eventplanner"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		EmailProvider:      getEnv("EMAIL_PROVIDER", "noop"),
		EmailFromAddress:   os.Getenv("EMAIL_FROM_ADDRESS"),
		EmailFromName:      os.Getenv("EMAIL_FROM_NAME"),
		SESRegion:          getEnv("AWS_SES_REGION", "us-east-1"),
		SESAccessKeyID:     os.Getenv("AWS_SES_ACCESS_KEY_ID"),
		SESSecretAccessKey: os.Getenv("AWS_SES_SECRET_ACCESS_KEY"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	expireMinutes := 60
	if s := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES %q", s)
		}
		expireMinutes = n
	}
	cfg.TokenExpiry = time.Duration(expireMinutes) * time.Minute

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = strings.Split(origins, ",")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
