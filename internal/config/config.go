package config

import (
	"errors"
	"os"
)

type Config struct {
	DBHost            string
	DBPort            string
	DBUser            string
	DBPass            string
	DBName            string
	DBSSLMode         string
	JWTSecret         string
	AdminPassword     string
	AdminPasswordHash string
	Port              string
	Env               string
	QRDir             string
	PublicBaseURL     string
	LogLevel          string
}

func NewConfigFromEnv() (*Config, error) {
	cfg := &Config{
		DBHost:            getenv("DB_HOST", "localhost"),
		DBPort:            getenv("DB_PORT", "5432"),
		DBUser:            getenv("DB_USER", "postgres"),
		DBPass:            getenv("DB_PASSWORD", "postgres"),
		DBName:            getenv("DB_NAME", "secretsanta"),
		DBSSLMode:         getenv("DB_SSLMODE", "disable"),
		JWTSecret:         getenv("JWT_SECRET", ""),
		AdminPassword:     getenv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH", ""),
		Port:              getenv("PORT", "3000"),
		Env:               getenv("ENV", "development"),
		QRDir:             getenv("QR_DIR", "./uploads/qrcodes"),
		PublicBaseURL:     getenv("PUBLIC_BASE_URL", "http://localhost:3000"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}

	return cfg, nil
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
