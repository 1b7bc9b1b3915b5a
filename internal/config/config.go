package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	DatabaseURL   string

	// Chart behaviour
	ChartCacheTTL    time.Duration
	DefaultNumbering string

	// Auth
	ClinicianJWTSecret string

	// Clinic branding used in outbound email
	ClinicName string

	// Reminder pipeline
	UseMemoryQueue       bool
	WorkerCount          int
	ReminderQueueURL     string
	ReminderLeadTime     time.Duration
	ReminderScanInterval time.Duration

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	ModelBucket         string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Email
	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string

	// CORS
	AllowedOrigins string

	// Rate limiting on the public surface
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		ChartCacheTTL:    getEnvAsDuration("CHART_CACHE_TTL", 15*time.Minute),
		DefaultNumbering: getEnv("DEFAULT_NUMBERING_SYSTEM", "universal"),

		ClinicianJWTSecret: getEnv("CLINICIAN_JWT_SECRET", ""),

		ClinicName: getEnv("CLINIC_NAME", "DentalWorks"),

		UseMemoryQueue:       getEnvAsBool("USE_MEMORY_QUEUE", false),
		WorkerCount:          getEnvAsInt("WORKER_COUNT", 2),
		ReminderQueueURL:     getEnv("REMINDER_QUEUE_URL", ""),
		ReminderLeadTime:     getEnvAsDuration("REMINDER_LEAD_TIME", 24*time.Hour),
		ReminderScanInterval: getEnvAsDuration("REMINDER_SCAN_INTERVAL", 5*time.Minute),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		ModelBucket:         getEnv("MODEL_BUCKET", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		EmailProvider:     getEnv("EMAIL_PROVIDER", "stub"),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "DentalWorks"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 20),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 40),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
