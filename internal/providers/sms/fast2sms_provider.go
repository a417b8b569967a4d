package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/outreach-dispatch/internal/adapters/common"
	"github.com/example/outreach-dispatch/internal/config"
)

const defaultFast2SMSURL = "https://www.fast2sms.com/dev/bulkV2"

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fast2SMSOption customises the behaviour of the Fast2SMS provider.
type Fast2SMSOption func(*Fast2SMSProvider)

// WithFast2SMSHTTPClient overrides the HTTP client.
func WithFast2SMSHTTPClient(client HTTPClient) Fast2SMSOption {
	return func(p *Fast2SMSProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithFast2SMSBaseURL points the provider at a different endpoint. Useful for tests.
func WithFast2SMSBaseURL(endpoint string) Fast2SMSOption {
	return func(p *Fast2SMSProvider) {
		if strings.TrimSpace(endpoint) != "" {
			p.endpoint = strings.TrimSpace(endpoint)
		}
	}
}

// WithFast2SMSClock overrides the clock used for timestamps.
func WithFast2SMSClock(now func() time.Time) Fast2SMSOption {
	return func(p *Fast2SMSProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// Fast2SMSProvider sends SMS through the Fast2SMS bulk API using a form POST
// authenticated with the account API key.
type Fast2SMSProvider struct {
	logger     zerolog.Logger
	apiKey     string
	senderID   string
	route      string
	language   string
	endpoint   string
	httpClient HTTPClient
	now        func() time.Time
}

// NewFast2SMSProvider constructs the provider. A missing API key is not an
// error here; it is reported through MissingCredentials and rejected on Send.
func NewFast2SMSProvider(cfg config.Fast2SMSConfig, logger zerolog.Logger, opts ...Fast2SMSOption) (*Fast2SMSProvider, error) {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	p := &Fast2SMSProvider{
		logger:     logger,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		senderID:   valueOr(cfg.SenderID, "TXTIND"),
		route:      valueOr(cfg.Route, "v3"),
		language:   valueOr(cfg.Language, "english"),
		endpoint:   valueOr(cfg.BaseURL, defaultFast2SMSURL),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	if _, err := url.ParseRequestURI(p.endpoint); err != nil {
		return nil, fmt.Errorf("fast2sms provider: invalid endpoint %q: %w", p.endpoint, err)
	}
	return p, nil
}

// MissingCredentials lists the environment keys that must be set before the
// provider can send.
func (p *Fast2SMSProvider) MissingCredentials() []string {
	if p.apiKey == "" {
		return []string{"FAST2SMS_API_KEY"}
	}
	return nil
}

// Send posts the message to every recipient in a single bulk request. Any
// status other than 200 is returned as an error alongside the raw body.
func (p *Fast2SMSProvider) Send(ctx context.Context, payload *Payload) (*RawResponse, error) {
	if payload == nil {
		return nil, errors.New("fast2sms provider: payload is required")
	}
	if len(payload.To) == 0 {
		return nil, errors.New("fast2sms provider: at least one recipient is required")
	}
	if p.apiKey == "" {
		return nil, errors.New("fast2sms provider: api key is required")
	}

	form := url.Values{}
	form.Set("sender_id", p.senderID)
	form.Set("message", payload.Body)
	form.Set("language", p.language)
	form.Set("route", p.route)
	form.Set("numbers", strings.Join(payload.To, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("fast2sms provider: new request: %w", err)
	}
	req.Header.Set("authorization", p.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fast2sms provider: http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := common.ReadBody(resp.Body, 0)
	if err != nil {
		return nil, fmt.Errorf("fast2sms provider: %w", err)
	}

	parsed := parseFast2SMSBody(body)
	raw := &RawResponse{
		ID:        parsed.RequestID,
		Code:      resp.StatusCode,
		Status:    http.StatusText(resp.StatusCode),
		Body:      body,
		Timestamp: p.now(),
	}

	if resp.StatusCode != http.StatusOK {
		p.logger.Debug().
			Int("status_code", resp.StatusCode).
			Msg("fast2sms rejected request")
		return raw, fmt.Errorf("fast2sms provider: http %d", resp.StatusCode)
	}
	return raw, nil
}

type fast2smsBody struct {
	Return    bool   `json:"return"`
	RequestID string `json:"request_id"`
}

func parseFast2SMSBody(body string) fast2smsBody {
	var parsed fast2smsBody
	if strings.TrimSpace(body) == "" {
		return parsed
	}
	_ = json.Unmarshal([]byte(body), &parsed)
	return parsed
}

func valueOr(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}
