package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Mail     MailConfig
	LLM      LLMConfig
	Storage  StorageConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr         string
	AuthUsername string
	AuthPassword string
	LogLevel     string
}

// MailConfig holds IMAP mailbox configuration
type MailConfig struct {
	Provider    string // gmail or outlook
	Address     string
	Password    string
	AppPassword string // preferred for gmail
	IMAPServer  string
	IMAPPort    int
	FetchLimit  int
}

// LLMConfig holds model backend configuration
type LLMConfig struct {
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// StorageConfig holds paths for uploaded and generated artifacts
type StorageConfig struct {
	UploadDir  string
	ResumeDir  string
	ProfileDir string
}

// LoadConfig loads configuration from the environment. A .env file in the
// working directory is applied first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DATABASE_URL", "job_applications.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			Addr:         getEnv("HTTP_ADDR", ":8000"),
			AuthUsername: getEnv("AUTH_USERNAME", ""),
			AuthPassword: getEnv("AUTH_PASSWORD", ""),
			LogLevel:     getEnv("LOG_LEVEL", "info"),
		},
		Mail: MailConfig{
			Provider:    getEnv("EMAIL_PROVIDER", "gmail"),
			Address:     getEnv("EMAIL_ADDRESS", ""),
			Password:    getEnv("EMAIL_PASSWORD", ""),
			AppPassword: getEnv("EMAIL_APP_PASSWORD", ""),
			IMAPServer:  getEnv("IMAP_SERVER", ""),
			IMAPPort:    getEnvAsInt("IMAP_PORT", 993),
			FetchLimit:  getEnvAsInt("EMAIL_FETCH_LIMIT", 50),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:       getEnv("OLLAMA_MODEL", "gemma3:4b"),
			Temperature: getEnvAsFloat32("OLLAMA_TEMPERATURE", 0.3),
			Timeout:     getEnvAsDuration("OLLAMA_TIMEOUT", 120*time.Second),
		},
		Storage: StorageConfig{
			UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
			ResumeDir:  getEnv("RESUME_DIR", "resumes"),
			ProfileDir: getEnv("PROFILE_DIR", "."),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DATABASE_URL is required", ErrInvalidInput)
	}
	if c.LLM.BaseURL == "" {
		return NewAppError("CONFIG_ERROR", "OLLAMA_BASE_URL is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
