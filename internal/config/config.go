package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string
	LogLevel   string

	JWTSecret         string
	AccessTokenMaxAge int

	RedisURL string

	// Telegram bot integration. Notifications and account binding are disabled
	// when TelegramBotToken is empty.
	TelegramBotToken      string
	TelegramBotUsername   string
	TelegramSigningKey    string
	TelegramTokenTTL      time.Duration
	TelegramWebhookSecret string
	TelegramAPIURL        string

	// Upload guard: too many distinct client IPs inside the window blocks uploads.
	UploadPathPrefix       string
	IPChangeWindow         time.Duration
	IPChangeThreshold      int
	IPChangeRestrictionTTL time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	WorkerCount int
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "require"),

		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessTokenMaxAge: getEnvInt("ACCESS_TOKEN_MAX_AGE", 900),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		TelegramBotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramBotUsername:   os.Getenv("TELEGRAM_BOT_USERNAME"),
		TelegramSigningKey:    os.Getenv("TELEGRAM_SIGNING_KEY"),
		TelegramTokenTTL:      time.Duration(getEnvInt("TELEGRAM_TOKEN_TTL_SECONDS", 7*24*3600)) * time.Second,
		TelegramWebhookSecret: os.Getenv("TELEGRAM_WEBHOOK_SECRET"),
		TelegramAPIURL:        getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),

		UploadPathPrefix:       getEnv("UPLOAD_PATH_PREFIX", "/uploads"),
		IPChangeWindow:         time.Duration(getEnvInt("IP_CHANGE_WINDOW_HOURS", 1)) * time.Hour,
		IPChangeThreshold:      getEnvInt("IP_CHANGE_THRESHOLD", 3),
		IPChangeRestrictionTTL: time.Duration(getEnvInt("IP_CHANGE_RESTRICTION_SECONDS", 5*3600)) * time.Second,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		WorkerCount: getEnvInt("WORKER_COUNT", 2),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	return cfg, nil
}

// TelegramEnabled reports whether both the bot token and the connect-token key are set.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramSigningKey != ""
}

// UploadsEnabled reports whether the R2 bucket is fully configured.
func (c *Config) UploadsEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns fallback for missing, malformed or non-positive values.
func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
