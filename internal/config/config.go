package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	SMTP       SMTPConfig
	Ai         AIConfig
	Image      ImageConfig
	Billing    BillingConfig
	Storyboard StoryboardConfig
	Tracing    TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JWTSecret string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	LLMProvider   string // "openrouter" or "ollama"
	LLMBaseURL    string
	LLMAPIKey     string
	LLMModel      string
	ContextWindow int
	StreamTimeout time.Duration
	SystemPrompt  string
}

type ImageConfig struct {
	LeonardoBaseURL   string
	LeonardoAPIKey    string
	LeonardoModelID   string
	LeonardoStyleUUID string
}

type BillingConfig struct {
	MidtransServerKey  string
	MidtransProduction bool
	WebhookUsername    string
	WebhookPassword    string
	PortalURL          string
	SignupBonus        int
	LowBalanceAt       int
}

type StoryboardConfig struct {
	RefreshInterval    time.Duration
	RefreshMaxAttempts int
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Date Night"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openrouter"),
			LLMBaseURL:    getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:     getEnv("OPENROUTER_API_KEY", ""),
			LLMModel:      getEnv("LLM_MODEL", "anthropic/claude-haiku-4.5"),
			ContextWindow: getEnvAsInt("LLM_CONTEXT_WINDOW", 20),
			StreamTimeout: getEnvAsDuration("LLM_STREAM_TIMEOUT", 120*time.Second),
			SystemPrompt:  getEnv("LLM_SYSTEM_PROMPT", ""),
		},
		Image: ImageConfig{
			LeonardoBaseURL:   getEnv("LEONARDO_BASE_URL", ""),
			LeonardoAPIKey:    getEnv("LEONARDO_AI_API_KEY", ""),
			LeonardoModelID:   getEnv("LEONARDO_MODEL_ID", ""),
			LeonardoStyleUUID: getEnv("LEONARDO_STYLE_UUID", ""),
		},
		Billing: BillingConfig{
			MidtransServerKey:  getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransProduction: getEnv("MIDTRANS_ENV", "sandbox") == "production",
			WebhookUsername:    getEnv("BILLING_WEBHOOK_USERNAME", ""),
			WebhookPassword:    getEnv("BILLING_WEBHOOK_PASSWORD", ""),
			PortalURL:          getEnv("BILLING_PORTAL_URL", "http://localhost:5173/billing"),
			SignupBonus:        getEnvAsInt("FREE_SIGNUP_TOKENS", 10),
			LowBalanceAt:       getEnvAsInt("LOW_BALANCE_THRESHOLD", 3),
		},
		Storyboard: StoryboardConfig{
			RefreshInterval:    getEnvAsDuration("SCENE_REFRESH_INTERVAL", 3*time.Second),
			RefreshMaxAttempts: getEnvAsInt("SCENE_REFRESH_MAX_ATTEMPTS", 40),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "ai-storyboard-backend"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1.0),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
