package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xeze-org/research-assistant/internal/report"
	"github.com/xeze-org/research-assistant/internal/store"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port             string
	PostgresDSN      string
	MongoURI         string
	MongoDB          string
	RedisAddr        string
	RedisPassword    string
	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioBucket      string
	MinioUseSSL      bool
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	OpenAITimeout    time.Duration
	RateLimitPerHour int
	LogLevel         string
	CORSOrigins      []string
}

func Load() *Config {
	return &Config{
		Port:             getenv("PORT", "8080"),
		PostgresDSN:      getenv("POSTGRES_DSN", ""),
		MongoURI:         getenv("MONGO_URI", ""),
		MongoDB:          getenv("MONGO_DB", "research_assistant"),
		RedisAddr:        getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:    getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:    getenv("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey:   getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:   getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:      getenv("MINIO_BUCKET", "research-reports"),
		MinioUseSSL:      getenv("MINIO_USE_SSL", "false") == "true",
		OpenAIAPIKey:     strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
		OpenAIModel:      getenv("OPENAI_MODEL", report.DefaultModel),
		OpenAIBaseURL:    getenv("OPENAI_BASE_URL", ""),
		OpenAITimeout:    getduration("OPENAI_TIMEOUT", report.DefaultTimeout),
		RateLimitPerHour: getint("RATE_LIMIT_PER_HOUR", 20),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		CORSOrigins:      splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}
}

// Report returns the external provider configuration.
func (c *Config) Report() report.ClientConfig {
	return report.ClientConfig{
		APIKey:  c.OpenAIAPIKey,
		Model:   c.OpenAIModel,
		BaseURL: c.OpenAIBaseURL,
		Timeout: c.OpenAITimeout,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getenv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Minio returns the export bucket settings.
func (c *Config) Minio() store.MinioConfig {
	return store.MinioConfig{
		Endpoint:  c.MinioEndpoint,
		AccessKey: c.MinioAccessKey,
		SecretKey: c.MinioSecretKey,
		Bucket:    c.MinioBucket,
		UseSSL:    c.MinioUseSSL,
	}
}

func (c *Config) Redis() store.RedisConfig {
	return store.RedisConfig{Addr: c.RedisAddr, Password: c.RedisPassword}
}
