package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// MediSync backend
	APIBaseURL      string
	APITimeout      time.Duration
	StatusUppercase bool // send "Scheduled" instead of "scheduled"

	// Session persistence
	SessionBackend string // "file" or "redis"
	SessionFile    string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string

	// Gateway login rate limiting
	LoginRatePerSecond float64
	LoginBurst         int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),

		APIBaseURL:      getEnv("MEDISYNC_API_URL", "http://localhost:8000/api/v1"),
		APITimeout:      getEnvAsDuration("MEDISYNC_API_TIMEOUT", 20*time.Second),
		StatusUppercase: getEnvAsBool("MEDISYNC_STATUS_UPPERCASE", false),

		SessionBackend: getEnv("SESSION_BACKEND", "file"),
		SessionFile:    getEnv("SESSION_FILE", ".medisync/session.json"),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),

		LoginRatePerSecond: getEnvAsFloat("LOGIN_RATE_PER_SECOND", 1),
		LoginBurst:         getEnvAsInt("LOGIN_BURST", 5),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
