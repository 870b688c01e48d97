package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// SettlePolicy controls what happens when an already-paid budget bill is
// settled again.
type SettlePolicy string

const (
	// SettlePolicyReject refuses a second settlement outright.
	SettlePolicyReject SettlePolicy = "reject"
	// SettlePolicyReverse treats a second settlement as a correction: it
	// reverses the prior ledger effect before applying the new one.
	SettlePolicyReverse SettlePolicy = "reverse"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth: single-operator credentials and JWT signing
	OperatorUser     string
	OperatorPassword string
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Budget retention: budgets whose end date is older than this many
	// (30-day) months are eligible for pruning.
	RetentionMonths int

	// Re-settlement behavior
	SettlePolicy SettlePolicy
}

var appConfig *Config

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fiscus"),
		DBPassword: getEnv("DB_PASSWORD", "fiscus"),
		DBName:     getEnv("DB_NAME", "fiscus"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		OperatorUser:     getEnv("OPERATOR_USER", "admin"),
		OperatorPassword: getEnv("OPERATOR_PASSWORD", "admin"),
		JWTSecret:        getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	monthsStr := getEnv("BUDGET_RETENTION_MONTHS", "24")
	months, err := strconv.Atoi(monthsStr)
	if err != nil || months < 1 {
		log.Printf("Warning: invalid BUDGET_RETENTION_MONTHS value '%s', falling back to 24\n", monthsStr)
		months = 24
	}
	config.RetentionMonths = months

	switch p := SettlePolicy(getEnv("SETTLE_POLICY", "reject")); p {
	case SettlePolicyReject, SettlePolicyReverse:
		config.SettlePolicy = p
	default:
		log.Printf("Warning: invalid SETTLE_POLICY value '%s', falling back to reject\n", p)
		config.SettlePolicy = SettlePolicyReject
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration.
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

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
