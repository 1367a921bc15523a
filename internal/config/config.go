package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	Ai       AIConfig
	Jobs     JobsConfig
	Cache    CacheConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	RealtimeLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	RealtimeSource     string // "nats", "postgres" or "local"
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
}

type AIConfig struct {
	LLMProvider string // "openrouter" or "ollama"
	LLMModel    string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	Referer     string
	AppTitle    string
}

type JobsConfig struct {
	SummarizeTopic       string
	StaleProcessingAfter time.Duration
	StaleSweepInterval   time.Duration
}

type CacheConfig struct {
	CategoryTTL time.Duration
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:4321"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RealtimeLogPath:    getEnv("REALTIME_LOG_FILE_PATH", "logs/realtime.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:4321"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			RealtimeSource:     getEnv("REALTIME_SOURCE", "nats"),
			OtelEnabled:        getEnv("OTEL_ENABLED", "false") == "true",
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "LearnFlowAI"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			AccessTokenTTL:  getEnvAsDuration("ACCESS_TOKEN_TTL", time.Hour),
			RefreshTokenTTL: getEnvAsDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
			ResetTokenTTL:   getEnvAsDuration("RESET_TOKEN_TTL", 30*time.Minute),
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", "openrouter"),
			LLMModel:    getEnv("LLM_MODEL", "openai/gpt-4o-mini"),
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			APIKey:      getEnv("OPENROUTER_API_KEY", ""),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			Referer:     getEnv("LLM_HTTP_REFERER", "https://learnflowai.com"),
			AppTitle:    getEnv("LLM_APP_TITLE", "LearnFlowAI"),
		},
		Jobs: JobsConfig{
			SummarizeTopic:       getEnv("SUMMARIZE_NOTE_TOPIC_NAME", "SUMMARIZE_NOTE"),
			StaleProcessingAfter: getEnvAsDuration("STALE_PROCESSING_AFTER", 15*time.Minute),
			StaleSweepInterval:   getEnvAsDuration("STALE_SWEEP_INTERVAL", 5*time.Minute),
		},
		Cache: CacheConfig{
			CategoryTTL: getEnvAsDuration("CATEGORY_CACHE_TTL", 10*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("90s", "15m").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
