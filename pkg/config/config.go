package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// MongoConfig holds the upstream document-database configuration
type MongoConfig struct {
	URI        string
	MainDBName string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// JWTConfig holds the signing configuration for both token families.
// The user and school secrets are independent on purpose: a token signed
// with one must never verify against the other.
type JWTConfig struct {
	UserSecret     string
	SchoolSecret   string
	UserTokenTTL   time.Duration
	SchoolTokenTTL time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// Config holds all configuration
type Config struct {
	Mongo   MongoConfig
	Server  ServerConfig
	JWT     JWTConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not returning error as .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	// Initialize config struct with values from environment
	config := &Config{
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", ""),
			MainDBName: getEnv("MAIN_DB_NAME", "space_together"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		JWT: JWTConfig{
			UserSecret:     getEnv("USER_SECRET", ""),
			SchoolSecret:   getEnv("SCHOOL_SECRET", ""),
			UserTokenTTL:   time.Duration(getEnvAsInt("USER_TOKEN_TTL_HOURS", 168)) * time.Hour,
			SchoolTokenTTL: time.Duration(getEnvAsInt("SCHOOL_TOKEN_TTL_HOURS", 24)) * time.Hour,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "school"),
		},
	}

	// Required settings are fatal at startup, never per request
	if config.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if config.JWT.UserSecret == "" {
		return nil, fmt.Errorf("USER_SECRET is required")
	}
	if config.JWT.SchoolSecret == "" {
		return nil, fmt.Errorf("SCHOOL_SECRET is required")
	}

	return config, nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Server.Env),
		zap.String("main_db_name", c.Mongo.MainDBName),
		zap.String("server_port", c.Server.Port),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
