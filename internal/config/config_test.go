package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xeze-org/research-assistant/internal/report"
	"github.com/xeze-org/research-assistant/internal/store"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_TIMEOUT", "RATE_LIMIT_PER_HOUR", "CORS_ORIGINS", "MONGO_DB"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "research_assistant", cfg.MongoDB)
	assert.Empty(t, cfg.OpenAIAPIKey)
	assert.Equal(t, report.DefaultModel, cfg.OpenAIModel)
	assert.Equal(t, 45*time.Second, cfg.OpenAITimeout)
	assert.Equal(t, 20, cfg.RateLimitPerHour)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")
	t.Setenv("OPENAI_MODEL", "gpt-4.1")
	t.Setenv("OPENAI_BASE_URL", "https://llm.example.com/v1")
	t.Setenv("OPENAI_TIMEOUT", "10s")
	t.Setenv("RATE_LIMIT_PER_HOUR", "0")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_BUCKET", "exports")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_PASSWORD", "")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	assert.True(t, cfg.Minio().UseSSL)
	assert.Equal(t, "exports", cfg.Minio().Bucket)
	assert.Equal(t, store.RedisConfig{Addr: "cache:6380"}, cfg.Redis())
	assert.Equal(t, 0, cfg.RateLimitPerHour)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, report.ClientConfig{
		APIKey:  "sk-test",
		Model:   "gpt-4.1",
		BaseURL: "https://llm.example.com/v1",
		Timeout: 10 * time.Second,
	}, cfg.Report())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("OPENAI_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_PER_HOUR", "-3")

	cfg := Load()

	assert.Equal(t, report.DefaultTimeout, cfg.OpenAITimeout)
	assert.Equal(t, 20, cfg.RateLimitPerHour)
}
