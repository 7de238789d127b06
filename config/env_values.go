package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"querydesk/internal/constants"

	"github.com/joho/godotenv"
)

type Environment struct {
	// Server configs
	IsDocker          bool
	Port              string
	Environment       string
	CorsAllowedOrigin string

	// Remote query service configs
	QueryServiceURL       string
	QueryServiceTimeoutMs int
	QueryServiceAPIKey    string

	// Assistant configs
	SuggestionCount     int
	DemoFallbackEnabled bool
	SessionTTLMinutes   int
	MaxSessionsPerUser  int

	// Default ask options
	AutoTrainOnSuccess bool
	GenerateFollowUps  bool
	GenerateCharts     bool
	AllowAutoFix       bool
	DefaultChartType   string

	// Auth configs
	JWTSecret                        string
	JWTExpirationMilliseconds        int
	JWTRefreshExpirationMilliseconds int
	AdminUser                        string
	AdminPassword                    string
}

var Env Environment

// LoadEnv loads environment variables from .env file if present
// and validates required variables
func LoadEnv() error {
	// Check if running in Docker
	Env.IsDocker = os.Getenv("IS_DOCKER") == "true"

	// Load .env file only if not running in Docker
	if !Env.IsDocker {
		if err := godotenv.Load(); err != nil {
			fmt.Printf("Warning: .env file not found: %v\n", err)
		}
	}

	// Server configs
	Env.Port = getEnvWithDefault("PORT", "3000")
	Env.Environment = getEnvWithDefault("ENVIRONMENT", "DEVELOPMENT")
	Env.CorsAllowedOrigin = getEnvWithDefault("CORS_ALLOWED_ORIGIN", "http://localhost:3001")

	// Remote query service configs
	Env.QueryServiceURL = getEnvWithDefault("QUERY_SERVICE_URL", "http://localhost:5002")
	Env.QueryServiceTimeoutMs = getIntEnvWithDefault("QUERY_SERVICE_TIMEOUT_MS", 1000*30)
	Env.QueryServiceAPIKey = getEnvWithDefault("QUERY_SERVICE_API_KEY", "")

	// Assistant configs
	Env.SuggestionCount = getIntEnvWithDefault("SUGGESTION_COUNT", 8)
	// Demo fallback fabricates example data when the query service is
	// unreachable. Opt-in outside development.
	Env.DemoFallbackEnabled = getBoolEnvWithDefault("DEMO_FALLBACK_ENABLED", Env.Environment == "DEVELOPMENT")
	Env.SessionTTLMinutes = getIntEnvWithDefault("SESSION_TTL_MINUTES", 60)
	Env.MaxSessionsPerUser = getIntEnvWithDefault("MAX_SESSIONS_PER_USER", 5)

	// Default ask options
	Env.AutoTrainOnSuccess = getBoolEnvWithDefault("AUTO_TRAIN_ON_SUCCESS", true)
	Env.GenerateFollowUps = getBoolEnvWithDefault("GENERATE_FOLLOWUPS", true)
	Env.GenerateCharts = getBoolEnvWithDefault("GENERATE_CHARTS", true)
	Env.AllowAutoFix = getBoolEnvWithDefault("ALLOW_AUTO_FIX", true)
	Env.DefaultChartType = getEnvWithDefault("DEFAULT_CHART_TYPE", constants.ChartTypeAuto)

	// Auth configs
	// JWT_SECRET must be set outside development; validateConfig rejects a
	// blank secret.
	Env.JWTSecret = os.Getenv("JWT_SECRET")
	if Env.JWTSecret == "" && Env.Environment == "DEVELOPMENT" {
		fmt.Println("Warning: JWT_SECRET not set, using a development-only default")
		Env.JWTSecret = "querydesk_dev_jwt_secret"
	}
	Env.JWTExpirationMilliseconds = getIntEnvWithDefault("JWT_EXPIRATION_MILLISECONDS", 1000*60*60*24*10)                 // 10 days default
	Env.JWTRefreshExpirationMilliseconds = getIntEnvWithDefault("JWT_REFRESH_EXPIRATION_MILLISECONDS", 1000*60*60*24*30) // 30 days default
	Env.AdminUser = getEnvWithDefault("QUERYDESK_ADMIN_USERNAME", "admin")
	Env.AdminPassword = getEnvWithDefault("QUERYDESK_ADMIN_PASSWORD", "admin")

	return validateConfig()
}

// Helper functions to get environment variables with defaults and validation
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strValue)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}
	return value
}

func getBoolEnvWithDefault(key string, defaultValue bool) bool {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(strValue)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %t\n", key, defaultValue)
		return defaultValue
	}
	return value
}

func validateConfig() error {
	// Validate query service URL format
	if !isValidURL(Env.QueryServiceURL) {
		return fmt.Errorf("invalid QUERY_SERVICE_URL format: %s", Env.QueryServiceURL)
	}

	if Env.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENVIRONMENT is %s", Env.Environment)
	}

	// Validate JWT expiration
	if Env.JWTExpirationMilliseconds <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MILLISECONDS must be positive, got: %d", Env.JWTExpirationMilliseconds)
	}

	if Env.QueryServiceTimeoutMs <= 0 {
		return fmt.Errorf("QUERY_SERVICE_TIMEOUT_MS must be positive, got: %d", Env.QueryServiceTimeoutMs)
	}

	if Env.AdminUser == "querydesk-admin" || Env.AdminPassword == "querydesk-password" {
		return fmt.Errorf("default credentials: querydesk-admin and querydesk-password should not be used")
	}

	return nil
}

func isValidURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
