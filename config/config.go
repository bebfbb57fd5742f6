package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBDriver  string
	DBName    string
	JWTKey    string
	SaltRound int

	// Accrual engine settings. The interval controls how often the scheduler
	// fires; the threshold controls when a plan is due for a profit tick.
	// Production semantics are daily, but both stay configurable.
	AccrualInterval         string
	AccrualThresholdMinutes int

	EmailSender    string
	SendGridApiKey string

	RatesApiURL string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBDriver:  getEnv("DB_DRIVER", "postgres"),
		DBName:    getEnv("DB_NAME", "cryptovest.db"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		AccrualInterval:         getEnv("ACCRUAL_INTERVAL", "24h"),
		AccrualThresholdMinutes: getEnvInt("ACCRUAL_THRESHOLD_MINUTES", 1440),

		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@cryptovest.io"),
		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),

		RatesApiURL: getEnv("RATES_API_URL", "https://api.coingecko.com/api/v3/simple/price"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendGridApiKey == "" {
		log.Println("Warning: SENDGRID_API_KEY not set. Notification emails will be skipped.")
	}
	if AppConfig.AccrualThresholdMinutes <= 0 {
		log.Println("Warning: ACCRUAL_THRESHOLD_MINUTES must be positive. Falling back to 1440.")
		AppConfig.AccrualThresholdMinutes = 1440
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
