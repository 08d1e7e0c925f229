package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("YOUTUBE_API_KEY", "yt-key")
	t.Setenv("YOUTUBE_MAX_COMMENTS", "250")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("NLP_LANGUAGE", "english")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "yt-key", cfg.YouTube.APIKey)
	assert.Equal(t, 250, cfg.YouTube.MaxComments)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "english", cfg.NLP.Language)
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"YOUTUBE_MAX_COMMENTS", "NLP_LANGUAGE", "NLP_MAX_TEXT_LENGTH", "CHART_PREFIX", "HF_INFERENCE_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, 500, cfg.YouTube.MaxComments)
	assert.Equal(t, "spanish", cfg.NLP.Language)
	assert.Equal(t, 512, cfg.NLP.MaxTextLength)
	assert.Equal(t, "charts", cfg.Chart.Prefix)
	assert.Equal(t, "finiteautomata/beto-emotion-analysis", cfg.NLP.ModelSpanish)
	assert.Equal(t, "j-hartmann/emotion-english-distilroberta-base", cfg.NLP.ModelEnglish)
	assert.Equal(t, "https://api-inference.huggingface.co", cfg.NLP.InferenceURL)
}

func validConfig() *AppConfig {
	cfg := Load()
	cfg.Timezone = "UTC"
	cfg.Database = DatabaseConfig{Host: "localhost", Port: "5432", User: "user", Name: "db"}
	cfg.MinIO = MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "charts"}
	cfg.YouTube.APIKey = "key"
	cfg.YouTube.BaseURL = "https://www.googleapis.com/youtube/v3"
	cfg.YouTube.MaxComments = 500
	cfg.NLP.Language = "spanish"
	cfg.NLP.ModelSpanish = "m-es"
	cfg.NLP.ModelEnglish = "m-en"
	cfg.NLP.InferenceURL = "https://api-inference.huggingface.co"
	cfg.NLP.MaxTextLength = 512
	cfg.NLP.Workers = 4
	cfg.Chart.Prefix = "charts"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing youtube key", func(t *testing.T) {
		cfg := validConfig()
		cfg.YouTube.APIKey = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "APIKey")
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := validConfig()
		cfg.MinIO.Bucket = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non positive workers", func(t *testing.T) {
		cfg := validConfig()
		cfg.NLP.Workers = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown timezone", func(t *testing.T) {
		cfg := validConfig()
		cfg.Timezone = "Mars/Olympus"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "APP_TIMEZONE")
	})
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "Asia/Jakarta"}
	assert.Equal(t, "Asia/Jakarta", cfg.Location().String())

	cfg.Timezone = "nope"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvFloatAndDuration(t *testing.T) {
	t.Setenv("TEST_FLOAT_VAR", "2.5")
	assert.Equal(t, 2.5, getEnvFloat("TEST_FLOAT_VAR", 1))

	t.Setenv("TEST_FLOAT_VAR", "x")
	assert.Equal(t, 1.0, getEnvFloat("TEST_FLOAT_VAR", 1))

	t.Setenv("TEST_DURATION_VAR", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DURATION_VAR", time.Second))

	t.Setenv("TEST_DURATION_VAR", "soon")
	assert.Equal(t, time.Second, getEnvDuration("TEST_DURATION_VAR", time.Second))
}
