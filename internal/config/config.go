// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Server    ServerConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	Scheduler SchedulerConfig
	AI        AIConfig
	SMTP      SMTPConfig
	APIKey    string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// SchedulerConfig holds settings of the trigger cycles
type SchedulerConfig struct {
	// Timezone is the IANA zone used to resolve "now" for due evaluation
	Timezone string
	// Concurrency is the number of schedules executed in parallel within one cycle
	Concurrency int
	// CycleTimeout bounds a whole trigger cycle
	CycleTimeout time.Duration
	// StaleExecutionAfter is the age after which a running execution is considered abandoned
	StaleExecutionAfter time.Duration
	// HistorySize is the number of cycle summaries kept in Redis
	HistorySize int
}

// AIConfig holds settings of the AI capability
type AIConfig struct {
	BaseURL        string
	APIKey         string
	UseOnline      bool
	RequestTimeout time.Duration
	OllamaHost     string
}

// SMTPConfig holds SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	NotifyTo string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	serverPort, err := intFromEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// API Key configuration (optional, protects the trigger endpoints)
	cfg.APIKey = os.Getenv("API_KEY")

	// Redis configuration
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost" // default
	}
	cfg.Redis.Host = redisHost

	if cfg.Redis.Port, err = intFromEnv("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD") // optional
	if cfg.Redis.DB, err = intFromEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	// Scheduler configuration
	timezone := os.Getenv("SCHEDULER_TIMEZONE")
	if timezone == "" {
		timezone = "Asia/Shanghai"
	}
	cfg.Scheduler.Timezone = timezone

	if cfg.Scheduler.Concurrency, err = intFromEnv("EXECUTION_CONCURRENCY", 1); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Concurrency < 1 {
		return nil, fmt.Errorf("invalid EXECUTION_CONCURRENCY: must be at least 1")
	}
	if cfg.Scheduler.CycleTimeout, err = durationFromEnv("CYCLE_TIMEOUT", 300*time.Second); err != nil {
		return nil, err
	}
	if cfg.Scheduler.StaleExecutionAfter, err = durationFromEnv("STALE_EXECUTION_AFTER", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Scheduler.HistorySize, err = intFromEnv("CYCLE_HISTORY_SIZE", 100); err != nil {
		return nil, err
	}

	// AI configuration
	aiBaseURL := os.Getenv("AI_PROVIDER_BASE_URL")
	if aiBaseURL == "" {
		aiBaseURL = "https://openrouter.ai/api/v1"
	}
	cfg.AI.BaseURL = aiBaseURL
	cfg.AI.APIKey = os.Getenv("OPENROUTER_API_KEY")
	cfg.AI.UseOnline = os.Getenv("AI_USE_ONLINE") == "true"
	if cfg.AI.RequestTimeout, err = durationFromEnv("AI_REQUEST_TIMEOUT", 180*time.Second); err != nil {
		return nil, err
	}
	cfg.AI.OllamaHost = os.Getenv("OLLAMA_HOST") // optional

	// The stale sweep must never catch an execution that can still finish
	if cfg.Scheduler.StaleExecutionAfter <= cfg.Scheduler.CycleTimeout || cfg.Scheduler.StaleExecutionAfter <= cfg.AI.RequestTimeout {
		return nil, fmt.Errorf("invalid STALE_EXECUTION_AFTER: %s must exceed CYCLE_TIMEOUT (%s) and AI_REQUEST_TIMEOUT (%s)",
			cfg.Scheduler.StaleExecutionAfter, cfg.Scheduler.CycleTimeout, cfg.AI.RequestTimeout)
	}

	// SMTP configuration (optional, for new message notifications)
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		smtpHost = "localhost" // default
	}
	cfg.SMTP.Host = smtpHost

	if cfg.SMTP.Port, err = intFromEnv("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME") // optional
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD") // optional

	smtpFrom := os.Getenv("SMTP_FROM")
	if smtpFrom == "" {
		smtpFrom = "noreply@messageflow.local" // default
	}
	cfg.SMTP.From = smtpFrom
	cfg.SMTP.NotifyTo = os.Getenv("NOTIFY_EMAIL")

	return cfg, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the Redis address in host:port form
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func parseOrigins(corsOrigins string) []string {
	if corsOrigins == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}

	origins := strings.Split(corsOrigins, ",")
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}

func intFromEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
