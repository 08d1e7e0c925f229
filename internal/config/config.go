package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `validate:"required"`
	Port               string `validate:"required"`
	User               string `validate:"required"`
	Password           string
	Name               string `validate:"required"`
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `validate:"required"`
	AccessKey string `validate:"required"`
	SecretKey string `validate:"required"`
	Bucket    string `validate:"required"`
	UseSSL    bool
}

// RedisConfig holds the analysis cache settings. An empty URL disables caching.
type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

// YouTubeConfig holds YouTube Data API v3 settings.
type YouTubeConfig struct {
	APIKey            string `validate:"required"`
	FallbackAPIKey    string
	BaseURL           string `validate:"required,url"`
	MaxComments       int    `validate:"gt=0"`
	RequestsPerSecond float64
	Timeout           time.Duration
}

// NLPConfig holds text preprocessing and emotion classification settings.
type NLPConfig struct {
	Language      string `validate:"required"`
	ModelSpanish  string `validate:"required"`
	ModelEnglish  string `validate:"required"`
	InferenceURL  string `validate:"required,url"`
	APIToken      string
	MaxTextLength int `validate:"gt=0"`
	Workers       int `validate:"gt=0"`
	Timeout       time.Duration
}

// ChartConfig holds chart rendering and storage settings.
type ChartConfig struct {
	Prefix    string `validate:"required"`
	URLExpiry time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Timezone string
	LogLevel string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	YouTube  YouTubeConfig
	NLP      NLPConfig
	Chart    ChartConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			CacheTTL: getEnvDuration("CACHE_TTL", 30*time.Minute),
		},
		YouTube: YouTubeConfig{
			APIKey:            getEnv("YOUTUBE_API_KEY", ""),
			FallbackAPIKey:    getEnv("YOUTUBE_API_KEY_FALLBACK", ""),
			BaseURL:           getEnv("YOUTUBE_API_BASE_URL", "https://www.googleapis.com/youtube/v3"),
			MaxComments:       getEnvInt("YOUTUBE_MAX_COMMENTS", 500),
			RequestsPerSecond: getEnvFloat("YOUTUBE_REQUESTS_PER_SECOND", 5),
			Timeout:           getEnvDuration("YOUTUBE_TIMEOUT", 15*time.Second),
		},
		NLP: NLPConfig{
			Language:      getEnv("NLP_LANGUAGE", "spanish"),
			ModelSpanish:  getEnv("NLP_MODEL_SPANISH", "finiteautomata/beto-emotion-analysis"),
			ModelEnglish:  getEnv("NLP_MODEL_ENGLISH", "j-hartmann/emotion-english-distilroberta-base"),
			InferenceURL:  getEnv("HF_INFERENCE_URL", "https://api-inference.huggingface.co"),
			APIToken:      getEnv("HF_API_TOKEN", ""),
			MaxTextLength: getEnvInt("NLP_MAX_TEXT_LENGTH", 512),
			Workers:       getEnvInt("NLP_WORKERS", 4),
			Timeout:       getEnvDuration("NLP_TIMEOUT", 30*time.Second),
		},
		Chart: ChartConfig{
			Prefix:    getEnv("CHART_PREFIX", "charts"),
			URLExpiry: getEnvDuration("CHART_URL_EXPIRY", 15*time.Minute),
		},
	}
}

// Validate checks that required settings are present so the service fails fast on startup.
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid config: APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
