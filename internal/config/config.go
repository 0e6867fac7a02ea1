package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig

	// Database Configuration
	Database DatabaseConfig

	// MongoDB Configuration (attachment storage)
	MongoDB MongoConfig

	// Auth Configuration
	Auth AuthConfig

	// Invite Configuration
	Invite InviteConfig

	// Notification Configuration
	Notification NotificationConfig

	// Email Configuration (optional)
	Email EmailConfig
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	APIPort      string
	MediaPort    string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	Environment  string // development, staging, production

	// PublicOrigin is the external base URL, used when building invite links.
	PublicOrigin string
}

// DatabaseConfig contains MySQL connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	DatabaseName string
	MaxOpenConns int
	MaxIdleConns int
}

// MongoConfig contains MongoDB connection configuration
type MongoConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

type AuthConfig struct {
	JWTSecret   string
	TokenTTLHrs int
}

type InviteConfig struct {
	TTLHours int
}

// NotificationConfig contains event dispatcher configuration
type NotificationConfig struct {
	Workers           int
	ChannelBufferSize int
	Enabled           bool
}

// EmailConfig contains email observer configuration (optional)
type EmailConfig struct {
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	FromEmail string
	Enabled   bool
}

// LoadConfig reads .env (if present) and builds the config from environment
// variables with sane development defaults.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using system env variables")
	}

	return &Config{
		Server: ServerConfig{
			APIPort:      getEnvOrDefault("API_PORT", "8080"),
			MediaPort:    getEnvOrDefault("MEDIA_PORT", "8081"),
			ReadTimeout:  getEnvIntOrDefault("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvIntOrDefault("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnvOrDefault("ENVIRONMENT", "development"),
			PublicOrigin: getEnvOrDefault("PUBLIC_ORIGIN", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", "localhost"),
			Port:         getEnvOrDefault("DB_PORT", "3306"),
			Username:     getEnvOrDefault("DB_USER", "rentdesk"),
			Password:     getEnvOrDefault("DB_PASSWORD", "rentdesk123"),
			DatabaseName: getEnvOrDefault("DB_NAME", "rentdesk"),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USER", "admin"),
			Password: getEnvOrDefault("MONGO_PASSWORD", "admin123"),
			Database: getEnvOrDefault("MONGO_DB", "rentdesk"),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnvOrDefault("JWT_SECRET", ""),
			TokenTTLHrs: getEnvIntOrDefault("TOKEN_TTL_HOURS", 24),
		},
		Invite: InviteConfig{
			TTLHours: getEnvIntOrDefault("INVITE_TTL_HOURS", 168),
		},
		Notification: NotificationConfig{
			Workers:           getEnvIntOrDefault("NOTIF_WORKERS", 5),
			ChannelBufferSize: getEnvIntOrDefault("NOTIF_BUFFER", 1000),
			Enabled:           getEnvOrDefault("NOTIF_ENABLED", "true") == "true",
		},
		Email: EmailConfig{
			SMTPHost:  getEnvOrDefault("SMTP_HOST", ""),
			SMTPPort:  getEnvIntOrDefault("SMTP_PORT", 587),
			Username:  getEnvOrDefault("SMTP_USERNAME", ""),
			Password:  getEnvOrDefault("SMTP_PASSWORD", ""),
			FromEmail: getEnvOrDefault("FROM_EMAIL", ""),
			Enabled:   getEnvOrDefault("EMAIL_ENABLED", "false") == "true",
		},
	}
}

// DSN builds the MySQL connection string from the database section.
func (cfg *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

// MongoURI builds the MongoDB connection string.
func (cfg *Config) MongoURI() string {
	if cfg.MongoDB.Username == "" {
		return fmt.Sprintf("mongodb://%s:%s", cfg.MongoDB.Host, cfg.MongoDB.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s",
		cfg.MongoDB.Username,
		cfg.MongoDB.Password,
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
