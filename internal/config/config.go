package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Record storage
	StorageBackend           string
	StoreTimeoutSeconds      int
	AllowLastVisitedOverride bool

	// Reminders
	ReminderPollMinutes int
	ReminderWorkers     int
	ExpoPushURL         string

	// Problem catalog
	LeetCodeGraphQLURL   string
	CatalogCacheTTLHours int

	// SMTP
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		StorageBackend:           getEnvOrDefault("STORAGE_BACKEND", "postgres"),
		StoreTimeoutSeconds:      getEnvAsIntOrDefault("STORE_TIMEOUT_SECONDS", 10),
		AllowLastVisitedOverride: getEnvAsBoolOrDefault("ALLOW_LAST_VISITED_OVERRIDE", false),

		ReminderPollMinutes: getEnvAsIntOrDefault("REMINDER_POLL_MINUTES", 15),
		ReminderWorkers:     getEnvAsIntOrDefault("REMINDER_WORKERS", 4),
		ExpoPushURL:         getEnvOrDefault("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),

		LeetCodeGraphQLURL:   getEnvOrDefault("LEETCODE_GRAPHQL_URL", "https://leetcode.com/graphql"),
		CatalogCacheTTLHours: getEnvAsIntOrDefault("CATALOG_CACHE_TTL_HOURS", 24),

		SMTPHost:    getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:    getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:    getEnvOrDefault("SMTP_USER", ""),
		SMTPPass:    getEnvOrDefault("SMTP_PASS", ""),
		SMTPFrom:    getEnvOrDefault("SMTP_FROM", "noreply@logleet.app"),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
