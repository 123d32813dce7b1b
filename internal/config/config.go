// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "change-me-in-production"

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Admin       AdminConfig
	Redis       RedisConfig
	Telegram    TelegramConfig
	Notify      NotifyConfig
	Catalog     CatalogConfig
	Storage     StorageConfig
	CORS        CORSConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	TrustedProxies []string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
}

// AdminConfig holds the bootstrap administrator created on first start.
type AdminConfig struct {
	Username string
	Password string
}

type RedisConfig struct {
	URL string
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIURL   string
	Timeout  time.Duration
}

func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type NotifyConfig struct {
	Broker     string // "memory" or "redis"
	Workers    int
	BufferSize int
	QueueKey   string
}

type CatalogConfig struct {
	PageSize          int
	ReviewAutoPublish bool
}

type StorageConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
	LocalDir        string
	PublicURL       string
	MaxImageSide    int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Host:           getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:    getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:    getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			TrustedProxies: getEnvAsList("SERVER_TRUSTED_PROXIES", nil),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "lebem"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 12),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
			APIURL:   getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			Timeout:  time.Duration(getEnvAsInt("TELEGRAM_TIMEOUT", 10)) * time.Second,
		},
		Notify: NotifyConfig{
			Broker:     strings.ToLower(getEnv("NOTIFY_BROKER", "memory")),
			Workers:    getEnvAsInt("NOTIFY_WORKERS", 2),
			BufferSize: getEnvAsInt("NOTIFY_BUFFER", 256),
			QueueKey:   getEnv("NOTIFY_QUEUE_KEY", "lebem:notifications"),
		},
		Catalog: CatalogConfig{
			PageSize:          getEnvAsInt("PAGE_SIZE", 20),
			ReviewAutoPublish: getEnvAsBool("REVIEW_AUTO_PUBLISH", false),
		},
		Storage: StorageConfig{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "lebem-media"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
			LocalDir:        getEnv("MEDIA_ROOT", "./media"),
			PublicURL:       getEnv("MEDIA_URL", "/media"),
			MaxImageSide:    getEnvAsInt("MEDIA_MAX_IMAGE_SIDE", 800),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", ""),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWT.SecretKey == defaultJWTSecret {
			return fmt.Errorf("JWT secret key must be changed in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database password is required in production")
		}
	}

	if c.Notify.Broker != "memory" && c.Notify.Broker != "redis" {
		return fmt.Errorf("unsupported notification broker %q", c.Notify.Broker)
	}

	if c.Notify.Workers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be at least 1")
	}

	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
