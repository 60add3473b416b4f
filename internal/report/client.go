package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
)

const (
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 45 * time.Second

	temperature = 0.2
)

// Failure classes of the external path. They are logged, never returned to
// callers of TryGenerate.
var (
	ErrNotConfigured    = errors.New("external provider not configured")
	ErrTransport        = errors.New("external provider transport failure")
	ErrMalformedPayload = errors.New("external provider returned malformed payload")
	ErrSchemaViolation  = errors.New("external report missing required keys")
)

// ClientConfig is the explicit configuration of the external provider.
// An empty APIKey disables the external path.
type ClientConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client makes a single chat-completion attempt per report.
type Client struct {
	cfg    ClientConfig
	api    *openai.Client
	logger *zap.Logger
}

// NewClient builds a Client. Extra request options are appended after the
// defaults, so tests can swap the HTTP client or endpoint.
func NewClient(cfg ClientConfig, logger *zap.Logger, opts ...option.RequestOption) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{cfg: cfg, logger: logger}
	if cfg.APIKey == "" {
		return c
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	api := openai.NewClient(reqOpts...)
	c.api = &api
	return c
}

// Configured reports whether a credential was supplied.
func (c *Client) Configured() bool {
	return c.api != nil
}

// TryGenerate returns a schema-valid report from the provider, or false on
// any failure.
func (c *Client) TryGenerate(ctx context.Context, topic, query string) (Report, bool) {
	start := time.Now()
	doc, err := c.generate(ctx, topic, query)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			c.logger.Debug("external provider disabled")
		} else {
			c.logger.Warn("external report generation failed",
				zap.String("model", c.cfg.Model),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
		}
		return nil, false
	}
	c.logger.Info("external report generated",
		zap.String("model", c.cfg.Model),
		zap.Duration("elapsed", time.Since(start)))
	return doc, true
}

func (c *Client) generate(ctx context.Context, topic, query string) (Report, error) {
	if c.api == nil {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(BuildSystemPrompt()),
			openai.UserMessage(BuildUserPrompt(topic, query)),
		},
		Temperature: openai.Float(temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedPayload)
	}
	return parseReport(resp.Choices[0].Message.Content)
}

// parseReport decodes a completion's message content and applies the key gate.
func parseReport(content string) (Report, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: null content", ErrMalformedPayload)
	}
	if missing := MissingKeys(doc, RequiredKeys); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(missing, ", "))
	}
	return Report(doc), nil
}
