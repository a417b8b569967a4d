package content_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/example/outreach-dispatch/internal/config"
	"github.com/example/outreach-dispatch/internal/content"
	"github.com/example/outreach-dispatch/internal/models"
)

const completionBody = `{
  "id": "cmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "sonar-pro",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Dear Asha, admissions are open."}}
  ]
}`

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newGenerator(t *testing.T, url string) *content.LLMGenerator {
	t.Helper()
	gen, err := content.NewLLMGenerator(config.LLMConfig{
		APIKey:      "pplx-test",
		BaseURL:     url,
		Model:       "sonar-pro",
		Temperature: 0.7,
		MaxRetries:  0,
	}, zerolog.Nop())
	require.NoError(t, err)
	return gen
}

func TestLLMGeneratorSuccess(t *testing.T) {
	var got chatRequest
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}))
	defer srv.Close()

	res := newGenerator(t, srv.URL+"/").Generate(context.Background(), content.Prompt{
		Channel:         models.ChannelEmail,
		Need:            "announce admissions",
		AudienceContext: "engineering admissions",
		RecipientName:   "Asha",
		Complexity:      models.ComplexityHigh,
	})

	require.False(t, res.Failed(), res.Reason())
	require.Equal(t, "Dear Asha, admissions are open.", res.Body())
	require.Equal(t, "/chat/completions", path)
	require.Equal(t, "Bearer pplx-test", auth)
	require.Equal(t, "sonar-pro", got.Model)
	require.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, "user", got.Messages[1].Role)
	require.Contains(t, got.Messages[1].Content, "EMAIL message addressed to Asha")
	require.Contains(t, got.Messages[1].Content, "high complexity")
}

func TestLLMGeneratorBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid model","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	res := newGenerator(t, srv.URL+"/").Generate(context.Background(), content.Prompt{Channel: models.ChannelSMS})
	require.True(t, res.Failed())
	require.Equal(t, "[ERROR] Bad Request. Check model name or input.", res.Body())
}

func TestLLMGeneratorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := newGenerator(t, srv.URL+"/").Generate(context.Background(), content.Prompt{Channel: models.ChannelSMS})
	require.True(t, res.Failed())
	require.True(t, strings.HasPrefix(res.Body(), "[ERROR] Request failed: "), res.Body())
}

func TestNewLLMGeneratorRequiresKey(t *testing.T) {
	_, err := content.NewLLMGenerator(config.LLMConfig{}, zerolog.Nop())
	require.Error(t, err)
}

func TestBuildUserPromptDefaults(t *testing.T) {
	prompt := content.BuildUserPrompt(content.Prompt{Channel: models.ChannelCall, Need: "invite"})
	require.Contains(t, prompt, "CALL message addressed to Student")
	require.Contains(t, prompt, "medium complexity")
	require.Contains(t, prompt, "They want to invite.")
}
