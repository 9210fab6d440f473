package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Scoring    ScoringConfig
	Retraining RetrainingConfig
	Trainer    TrainerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// SessionTTL bounds how long an abandoned ACTIVE session survives in the
	// store before the timeout policy reclaims it
	SessionTTL time.Duration
}

// StorageConfig holds object storage configuration for the session archive
type StorageConfig struct {
	Type            string // "minio" or "s3"
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// ScoringConfig holds evaluation tuning
type ScoringConfig struct {
	// MaxRewardPerAction is the fixed per-step maximum used to normalize
	// cumulative reward into the success rate
	MaxRewardPerAction float64
}

// RetrainingConfig holds the threshold rules for the retraining policy
type RetrainingConfig struct {
	EffectivenessThreshold float64 // fire below this followed/ignored score ratio
	DifficultyThreshold    float64 // fire above this mean difficulty rating
	MinSessionsPerScenario int     // difficulty rule needs at least this many sessions
	ErrorRateDelta         float64 // fire when trailing error rate grows by more than this
	MinRecentFeedback      int     // evaluations need at least this many recent records
	WindowDays             int     // trailing window size
}

// TrainerConfig holds the external training pipeline endpoint
type TrainerConfig struct {
	WebhookURL    string
	APIKey        string
	WebhookSecret string
	Timeout       time.Duration
	Enabled       bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", "*"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "dca_feedback"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:       getEnv("REDIS_HOST", "localhost"),
			Port:       getEnv("REDIS_PORT", "6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			SessionTTL: getEnvAsDuration("REDIS_SESSION_TTL", "24h"),
		},
		Storage: StorageConfig{
			Type:            getEnv("STORAGE_TYPE", "minio"),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "dca-feedback"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Scoring: ScoringConfig{
			MaxRewardPerAction: getEnvAsFloat("SCORING_MAX_REWARD_PER_ACTION", 10.0),
		},
		Retraining: RetrainingConfig{
			EffectivenessThreshold: getEnvAsFloat("RETRAIN_EFFECTIVENESS_THRESHOLD", 0.85),
			DifficultyThreshold:    getEnvAsFloat("RETRAIN_DIFFICULTY_THRESHOLD", 4.0),
			MinSessionsPerScenario: getEnvAsInt("RETRAIN_MIN_SESSIONS_PER_SCENARIO", 3),
			ErrorRateDelta:         getEnvAsFloat("RETRAIN_ERROR_RATE_DELTA", 0.15),
			MinRecentFeedback:      getEnvAsInt("RETRAIN_MIN_RECENT_FEEDBACK", 10),
			WindowDays:             getEnvAsInt("RETRAIN_WINDOW_DAYS", 7),
		},
		Trainer: TrainerConfig{
			WebhookURL:    getEnv("TRAINER_WEBHOOK_URL", ""),
			APIKey:        getEnv("TRAINER_API_KEY", ""),
			WebhookSecret: getEnv("TRAINER_WEBHOOK_SECRET", ""),
			Timeout:       getEnvAsDuration("TRAINER_TIMEOUT", "10s"),
			Enabled:       getEnvAsBool("TRAINER_ENABLED", false),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scoring.MaxRewardPerAction <= 0 {
		return fmt.Errorf("SCORING_MAX_REWARD_PER_ACTION must be positive")
	}
	if c.Retraining.EffectivenessThreshold <= 0 {
		return fmt.Errorf("RETRAIN_EFFECTIVENESS_THRESHOLD must be positive")
	}
	if c.Trainer.Enabled && c.Trainer.WebhookURL == "" {
		return fmt.Errorf("TRAINER_WEBHOOK_URL is required when TRAINER_ENABLED is set")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsSlice(key string, defaultValue string) []string {
	valueStr := getEnv(key, defaultValue)
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
