package config

import (
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

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

	// Pipeline (scheduled jobs and operator tooling)
	PipelineAPIKey string

	// Notifications
	BudgetAlertThresholds []float64
	ReminderLeadDays      int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "finwise"),
		DBPassword: getEnv("DB_PASSWORD", "finwise"),
		DBName:     getEnv("DB_NAME", "finwise"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	thresholdStr := getEnv("BUDGET_ALERT_THRESHOLDS", "100")
	thresholds, err := ParseThresholds(thresholdStr)
	if err != nil {
		log.Printf("Warning: invalid BUDGET_ALERT_THRESHOLDS value '%s', falling back to 100\n", thresholdStr)
		thresholds = []float64{100}
	}
	config.BudgetAlertThresholds = thresholds

	leadStr := getEnv("REMINDER_LEAD_DAYS", "0")
	lead, err := strconv.Atoi(leadStr)
	if err != nil || lead < 0 {
		log.Printf("Warning: invalid REMINDER_LEAD_DAYS value '%s', falling back to 0\n", leadStr)
		lead = 0
	}
	config.ReminderLeadDays = lead

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

// ParseThresholds parses a comma-separated list of positive percentages,
// e.g. "80,100". The result is sorted ascending with duplicates removed.
func ParseThresholds(s string) ([]float64, error) {
	seen := make(map[float64]bool)
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		if v <= 0 {
			return nil, strconv.ErrRange
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, strconv.ErrSyntax
	}
	sort.Float64s(out)
	return out, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
