package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Market data
	IEXBaseURL     string
	IEXAPIKeys     []string
	QuoteTimeout   time.Duration
	QuoteRateLimit float64
	ChartTTL       time.Duration
	ChartRange     string
	PriceCacheTTL  time.Duration
	RedisURL       string

	// Scheduled refresh
	RefreshSchedule    string
	RefreshConcurrency int
	ServiceAPIKey      string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "3001"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "folio"),
		DBPassword: getEnv("DB_PASSWORD", "folio"),
		DBName:     getEnv("DB_NAME", "folio"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Market data
		IEXBaseURL: getEnv("IEX_BASE_URL", "https://cloud.iexapis.com/stable"),
		IEXAPIKeys: loadAPIKeys(),
		ChartRange: getEnv("CHART_RANGE", "6m"),
		RedisURL:   getEnv("REDIS_URL", ""),

		RefreshSchedule: getEnv("REFRESH_SCHEDULE", ""),
		ServiceAPIKey:   getEnv("SERVICE_API_KEY", ""),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.QuoteTimeout = getDuration("QUOTE_TIMEOUT", 10*time.Second)
	config.ChartTTL = getDuration("CHART_TTL", 30*time.Minute)
	config.PriceCacheTTL = getDuration("PRICE_CACHE_TTL", time.Minute)
	config.QuoteRateLimit = getFloat("QUOTE_RATE_LIMIT", 5)
	config.RefreshConcurrency = getInt("REFRESH_CONCURRENCY", 4)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// loadAPIKeys resolves the market data key pool. IEX_API_KEYS takes a comma
// separated list; the numbered IEX_API_KEY_1..3 variables and a single
// IEX_API_KEY are accepted as well.
func loadAPIKeys() []string {
	var keys []string
	for _, k := range strings.Split(os.Getenv("IEX_API_KEYS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	for _, name := range []string{"IEX_API_KEY_1", "IEX_API_KEY_2", "IEX_API_KEY_3", "IEX_API_KEY"} {
		if k := strings.TrimSpace(os.Getenv(name)); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, raw, defaultValue)
		return defaultValue
	}
	return f
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
