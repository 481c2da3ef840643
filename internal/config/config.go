package config

import "os"

type Config struct {
	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	// HS256 secret for locally issued access tokens
	JWT_SECRET string

	// Optional OIDC single sign-on
	OIDC_DOMAIN        string
	OIDC_CLIENT_ID     string
	OIDC_CLIENT_SECRET string
	OIDC_CALLBACK_URL  string
	STATE_SECRET       string

	// Optional Redis-backed login throttling
	REDIS_ADDR     string
	REDIS_PASSWORD string

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string

	LISTEN_ADDR string
}

func ReadConfig() *Config {
	return &Config{
		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     GetEnvOrDefault("DB_HOST", "localhost"),
		DB_PORT:     GetEnvOrDefault("DB_PORT", "5432"),
		DB_NAME:     GetEnvOrDefault("DB_NAME", "taskdeck"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		JWT_SECRET: os.Getenv("JWT_SECRET"),

		OIDC_DOMAIN:        os.Getenv("OIDC_DOMAIN"),
		OIDC_CLIENT_ID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDC_CLIENT_SECRET: os.Getenv("OIDC_CLIENT_SECRET"),
		OIDC_CALLBACK_URL:  os.Getenv("OIDC_CALLBACK_URL"),
		STATE_SECRET:       os.Getenv("STATE_SECRET"),

		REDIS_ADDR:     os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		LISTEN_ADDR: GetEnvOrDefault("LISTEN_ADDR", "0.0.0.0:6060"),
	}
}

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
