package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Session  SessionConfig
	Queue    QueueConfig
	R2       R2Config
	Provider ProviderConfig
	Telegram TelegramConfig
	Sentry   SentryConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port        string
	Environment string
	// requests per second per client IP on the public API
	RateLimit float64
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type SessionConfig struct {
	IdleTTL       time.Duration
	SweepSchedule string
	// password given to seeded users and to admin resets
	DefaultPassword string
}

type QueueConfig struct {
	BrokerAddress string
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

type ProviderConfig struct {
	APIKey            string
	ImageModel        string
	TextModel         string
	RequestsPerMinute int
	Burst             int
}

type TelegramConfig struct {
	Token  string
	ChatID int64
}

type SentryConfig struct {
	DSN     string
	Release string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	chatID, err := strconv.ParseInt(getEnv("TG_CHAT_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TG_CHAT_ID: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8083"),
			Environment: getEnv("ENV", "local"),
			RateLimit:   parseFloat(getEnv("API_RATE_LIMIT", "10"), 10),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expiry: parseDuration(getEnv("JWT_EXPIRY", "12h"), 12*time.Hour),
		},
		Session: SessionConfig{
			IdleTTL:         parseDuration(getEnv("SESSION_IDLE_TTL", "2h"), 2*time.Hour),
			SweepSchedule:   getEnv("SESSION_SWEEP_SCHEDULE", "*/10 * * * *"),
			DefaultPassword: getEnv("DEFAULT_USER_PASSWORD", "Welcome@1234"),
		},
		Queue: QueueConfig{
			BrokerAddress: getEnv("ASYNC_BROKER_ADDRESS", ""),
		},
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
			Bucket:          getEnv("R2_BUCKET_NAME", ""),
		},
		Provider: ProviderConfig{
			APIKey:            getEnv("GOOGLE_API_KEY", ""),
			ImageModel:        getEnv("GENAI_IMAGE_MODEL", "gemini-2.5-flash-image"),
			TextModel:         getEnv("GENAI_TEXT_MODEL", "gemini-2.5-flash"),
			RequestsPerMinute: parseInt(getEnv("GENAI_REQUESTS_PER_MINUTE", "20"), 20),
			Burst:             parseInt(getEnv("GENAI_BURST", "2"), 2),
		},
		Telegram: TelegramConfig{
			Token:  getEnv("TG_TOKEN", ""),
			ChatID: chatID,
		},
		Sentry: SentryConfig{
			DSN:     getEnv("SENTRY_DSN", ""),
			Release: getEnv("SENTRY_RELEASE", "sareeapi@1.0.0"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	return cfg, nil
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.User, c.Password, c.Host, c.Port, c.Name)
}

// Enabled reports whether enough R2 settings are present to talk to the bucket.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.AccessKeySecret != "" && c.Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using %s", s, fallback)
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		log.Printf("Invalid integer %s, using %d", s, fallback)
		return fallback
	}
	return v
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		log.Printf("Invalid number %s, using %v", s, fallback)
		return fallback
	}
	return v
}
