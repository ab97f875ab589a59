package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	// Database
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	// Redis
	EnableCache bool
	RedisURL    string

	// JWT
	JWTSecret string

	// Server
	Port        string
	Environment string

	// CORS
	CORSOrigins []string

	// Upload / PDF ingestion
	UploadDir        string
	MaxUploadSize    int64
	PDFParserCommand string

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   int
	RateLimitBurst    int

	// Menu policy
	// RecognizedPreferences is the closed set of dietary preference tags a
	// menu item may carry. Allergens are intentionally not enumerated.
	RecognizedPreferences []string
	// EventDateWindowDays bounds how far in the past or future a requested
	// menu date may lie on the read path. Write-path submissions additionally
	// must not be in the past.
	EventDateWindowDays int

	// Admin bootstrap
	AdminUsername string
	AdminPassword string

	// Features
	EnableMetrics bool
}

func New() *Config {
	c := &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "cateruser"),
		DBPassword: getEnv("DB_PASSWORD", "caterpassword"),
		DBName:     getEnv("DB_NAME", "caterdb"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		EnableCache: getEnvAsBool("ENABLE_CACHE", true),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),

		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// CORS
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		// Upload
		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize:    10 * 1024 * 1024, // 10MB
		PDFParserCommand: getEnv("PDF_PARSER_COMMAND", "python3 ./pdf_handler/pdf_handler.py"),

		// Rate Limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 20),

		// Menu policy
		RecognizedPreferences: splitAndTrim(getEnv("RECOGNIZED_PREFERENCES", "VEGAN,VEGETARIAN,PESCATARIAN,GLUTEN_FREE,DAIRY_FREE")),
		EventDateWindowDays:   getEnvAsInt("EVENT_DATE_WINDOW_DAYS", 365),

		// Admin bootstrap
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		// Features
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}

	// Build DSN
	c.DatabaseURL = fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)

	return c
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
