package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider is a counting chat-completion endpoint.
type fakeProvider struct {
	server *httptest.Server
	hits   atomic.Int32
	body   atomic.Value // last request body as map[string]any
	auth   atomic.Value // last Authorization header
}

func newFakeProvider(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *fakeProvider {
	t.Helper()
	fp := &fakeProvider{}
	fp.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp.hits.Add(1)
		fp.auth.Store(r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		fp.body.Store(body)
		handler(w, r)
	}))
	t.Cleanup(fp.server.Close)
	return fp
}

func (fp *fakeProvider) client(timeout time.Duration) *Client {
	return NewClient(ClientConfig{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: fp.server.URL,
		Timeout: timeout,
	}, zap.NewNop())
}

// completion wraps content the way a chat-completion endpoint does.
func completion(content string) []byte {
	out, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return out
}

func respondWith(status int, body []byte) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
	}
}

func validReportJSON(t *testing.T, drop ...string) string {
	t.Helper()
	doc := map[string]any{}
	for k, v := range Fallback("Remote Topic", "Remote query") {
		doc[k] = v
	}
	doc["provider_note"] = "extra keys are fine"
	for _, k := range drop {
		delete(doc, k)
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(raw)
}

func TestClient_NoCredentialShortCircuits(t *testing.T) {
	fp := newFakeProvider(t, respondWith(http.StatusOK, completion(validReportJSON(t))))

	for _, key := range []string{"", "   "} {
		c := NewClient(ClientConfig{APIKey: key, BaseURL: fp.server.URL}, zap.NewNop())
		assert.False(t, c.Configured())

		doc, ok := c.TryGenerate(context.Background(), "t", "q")
		assert.False(t, ok)
		assert.Nil(t, doc)

		_, err := c.generate(context.Background(), "t", "q")
		assert.ErrorIs(t, err, ErrNotConfigured)
	}
	assert.Equal(t, int32(0), fp.hits.Load())
}

func TestClient_ValidResponseReturnedUnchanged(t *testing.T) {
	fp := newFakeProvider(t, respondWith(http.StatusOK, completion(validReportJSON(t))))

	doc, ok := fp.client(5*time.Second).TryGenerate(context.Background(), "Edge AI", "How?")
	require.True(t, ok)

	assert.Equal(t, int32(1), fp.hits.Load())
	assert.True(t, HasAllRequiredKeys(doc, RequiredKeys))
	assert.Equal(t, "extra keys are fine", doc["provider_note"])
	assert.NotContains(t, doc, PromptDebugKey)
	assert.Contains(t, doc["abstract"], "Remote Topic")
}

func TestClient_RequestShape(t *testing.T) {
	fp := newFakeProvider(t, respondWith(http.StatusOK, completion(validReportJSON(t))))

	_, ok := fp.client(5*time.Second).TryGenerate(context.Background(), "Edge AI", "How to optimize?")
	require.True(t, ok)

	assert.Equal(t, "Bearer test-key", fp.auth.Load())

	body, _ := fp.body.Load().(map[string]any)
	require.NotNil(t, body)
	assert.Equal(t, "test-model", body["model"])
	assert.InDelta(t, 0.2, body["temperature"], 1e-9)
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	system, _ := msgs[0].(map[string]any)
	user, _ := msgs[1].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, BuildSystemPrompt(), system["content"])
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, BuildUserPrompt("Edge AI", "How to optimize?"), user["content"])
}

func TestClient_SchemaGate(t *testing.T) {
	fp := newFakeProvider(t, respondWith(http.StatusOK, completion(validReportJSON(t, "references"))))
	c := fp.client(5 * time.Second)

	doc, ok := c.TryGenerate(context.Background(), "t", "q")
	assert.False(t, ok)
	assert.Nil(t, doc)

	_, err := c.generate(context.Background(), "t", "q")
	assert.ErrorIs(t, err, ErrSchemaViolation)
	assert.Contains(t, err.Error(), "references")
}

func TestClient_FailuresCollapseToAbsent(t *testing.T) {
	tests := []struct {
		name    string
		handler func(http.ResponseWriter, *http.Request)
		wantErr error
	}{
		{
			name:    "server error",
			handler: respondWith(http.StatusInternalServerError, []byte(`{"error":{"message":"boom"}}`)),
			wantErr: ErrTransport,
		},
		{
			name:    "unauthorized",
			handler: respondWith(http.StatusUnauthorized, []byte(`{"error":{"message":"bad key"}}`)),
			wantErr: ErrTransport,
		},
		{
			name:    "content is prose",
			handler: respondWith(http.StatusOK, completion("Here is your report: ...")),
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "content is a JSON array",
			handler: respondWith(http.StatusOK, completion(`["abstract"]`)),
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "content is null",
			handler: respondWith(http.StatusOK, completion(`null`)),
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "no choices",
			handler: respondWith(http.StatusOK, []byte(`{"id":"x","object":"chat.completion","choices":[]}`)),
			wantErr: ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := newFakeProvider(t, tt.handler)
			c := fp.client(5 * time.Second)

			doc, ok := c.TryGenerate(context.Background(), "t", "q")
			assert.False(t, ok)
			assert.Nil(t, doc)
			assert.Equal(t, int32(1), fp.hits.Load(), "exactly one attempt, no retries")

			_, err := c.generate(context.Background(), "t", "q")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(ClientConfig{APIKey: "k", BaseURL: url, Timeout: time.Second}, zap.NewNop())
	_, err := c.generate(context.Background(), "t", "q")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_TimeoutBound(t *testing.T) {
	release := make(chan struct{})
	fp := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	c := fp.client(100 * time.Millisecond)
	start := time.Now()
	doc, ok := c.TryGenerate(context.Background(), "t", "q")
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.Nil(t, doc)
	assert.Less(t, elapsed, 3*time.Second)
}

func TestClient_CallerCancellation(t *testing.T) {
	release := make(chan struct{})
	fp := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := fp.client(time.Minute).generate(ctx, "t", "q")
	assert.ErrorIs(t, err, ErrTransport)
	assert.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "context canceled"))
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(ClientConfig{}, nil)
	assert.Equal(t, DefaultModel, c.cfg.Model)
	assert.Equal(t, DefaultTimeout, c.cfg.Timeout)
	assert.False(t, c.Configured())
}
