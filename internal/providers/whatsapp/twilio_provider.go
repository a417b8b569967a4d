package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/outreach-dispatch/internal/adapters/common"
	"github.com/example/outreach-dispatch/internal/config"
)

const (
	defaultTwilioBaseURL = "https://api.twilio.com/2010-04-01"
	// SandboxNumber is Twilio's shared WhatsApp sandbox sender.
	SandboxNumber = "+14155238886"
)

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TwilioOption customises the behaviour of the WhatsApp Twilio provider.
type TwilioOption func(*TwilioProvider)

// WithTwilioHTTPClient overrides the HTTP client used to talk to Twilio.
func WithTwilioHTTPClient(client HTTPClient) TwilioOption {
	return func(p *TwilioProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithTwilioBaseURL sets the base Twilio API URL. Useful for tests.
func WithTwilioBaseURL(baseURL string) TwilioOption {
	return func(p *TwilioProvider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTwilioClock overrides the clock used for timestamps.
func WithTwilioClock(now func() time.Time) TwilioOption {
	return func(p *TwilioProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithTwilioBodyLimit adjusts how many bytes are retained from the HTTP response body.
func WithTwilioBodyLimit(limit int64) TwilioOption {
	return func(p *TwilioProvider) {
		if limit > 0 {
			p.maxBodyBytes = limit
		}
	}
}

// TwilioProvider implements the Provider interface for WhatsApp using Twilio's API.
type TwilioProvider struct {
	logger       zerolog.Logger
	accountSID   string
	authToken    string
	defaultFrom  string
	httpClient   HTTPClient
	baseURL      string
	now          func() time.Time
	maxBodyBytes int64
}

// NewTwilioProvider constructs a Twilio-backed WhatsApp provider. Missing
// credentials are reported by MissingCredentials rather than failing here.
func NewTwilioProvider(cfg config.TwilioConfig, logger zerolog.Logger, opts ...TwilioOption) (*TwilioProvider, error) {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	from := cfg.PhoneNumber
	if strings.TrimSpace(from) == "" {
		from = SandboxNumber
	}

	provider := &TwilioProvider{
		logger:       logger,
		accountSID:   strings.TrimSpace(cfg.AccountSID),
		authToken:    strings.TrimSpace(cfg.AuthToken),
		defaultFrom:  formatWhatsAppAddress(from),
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		now:          time.Now,
		maxBodyBytes: 16 * 1024,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(provider)
		}
	}

	if provider.baseURL == "" {
		provider.baseURL = defaultTwilioBaseURL
	}
	if _, err := url.ParseRequestURI(provider.baseURL); err != nil {
		return nil, fmt.Errorf("twilio whatsapp provider: invalid base url %q: %w", provider.baseURL, err)
	}

	return provider, nil
}

// MissingCredentials lists unset credential keys.
func (p *TwilioProvider) MissingCredentials() []string {
	var missing []string
	if p.accountSID == "" {
		missing = append(missing, "TWILIO_SID")
	}
	if p.authToken == "" {
		missing = append(missing, "TWILIO_TOKEN")
	}
	return missing
}

// Send delivers the WhatsApp payload via Twilio, one API call per recipient.
func (p *TwilioProvider) Send(ctx context.Context, payload *Payload) (*RawResponse, error) {
	if payload == nil {
		return nil, errors.New("twilio whatsapp provider: payload is required")
	}
	if len(payload.To) == 0 {
		return nil, errors.New("twilio whatsapp provider: at least one recipient is required")
	}
	if len(p.MissingCredentials()) > 0 {
		return nil, errors.New("twilio whatsapp provider: account SID and auth token are required")
	}

	from := formatWhatsAppAddress(payload.From)
	if from == "" {
		from = p.defaultFrom
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", p.baseURL, url.PathEscape(p.accountSID))
	raw := &RawResponse{}
	var ids []string

	for _, recipient := range payload.To {
		result, body, err := p.sendSingle(ctx, endpoint, from, recipient, payload.Body)
		raw.Body = body
		if result != nil {
			if result.SID != "" {
				ids = append(ids, result.SID)
			}
			raw.Status = result.Status
			raw.Code = result.HTTPStatus
			raw.Message = result.Message
		}
		if err != nil {
			raw.ID = strings.Join(ids, ",")
			raw.Timestamp = p.now()
			return raw, err
		}
	}

	raw.ID = strings.Join(ids, ",")
	raw.Timestamp = p.now()
	return raw, nil
}

type twilioResult struct {
	SID        string
	Status     string
	Message    string
	HTTPStatus int
}

func (p *TwilioProvider) sendSingle(ctx context.Context, endpoint, from, to, body string) (*twilioResult, string, error) {
	params := url.Values{}
	params.Set("To", formatWhatsAppAddress(to))
	params.Set("From", from)
	params.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, "", fmt.Errorf("twilio whatsapp provider: new request: %w", err)
	}
	req.SetBasicAuth(p.accountSID, p.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("twilio whatsapp provider: http do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := common.ReadBody(resp.Body, p.maxBodyBytes)
	if err != nil {
		return nil, "", fmt.Errorf("twilio whatsapp provider: %w", err)
	}

	parsed := parseTwilioBody(respBody)
	result := &twilioResult{
		SID:        parsed.SID,
		Status:     parsed.Status,
		HTTPStatus: resp.StatusCode,
	}
	if result.Status == "" {
		result.Status = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return result, respBody, nil
	}

	message := parsed.Message
	if message == "" {
		message = strings.TrimSpace(respBody)
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	result.Message = message

	if parsed.ErrorCode > 0 {
		return result, respBody, fmt.Errorf("twilio whatsapp provider: error %d: %s", parsed.ErrorCode, message)
	}
	return result, respBody, fmt.Errorf("twilio whatsapp provider: http %d: %s", resp.StatusCode, message)
}

type twilioBody struct {
	SID       string `json:"sid"`
	Status    string `json:"status"`
	ErrorCode int    `json:"code"`
	Message   string `json:"message"`
}

func parseTwilioBody(body string) twilioBody {
	if strings.TrimSpace(body) == "" {
		return twilioBody{}
	}

	var parsed twilioBody
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		return parsed
	}

	// Some error bodies carry the code as a string.
	var generic map[string]any
	if err := json.Unmarshal([]byte(body), &generic); err != nil {
		return twilioBody{}
	}

	result := twilioBody{}
	if v, ok := generic["sid"].(string); ok {
		result.SID = v
	}
	if v, ok := generic["status"].(string); ok {
		result.Status = v
	}
	if v, ok := generic["code"].(string); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			result.ErrorCode = n
		}
	}
	if v, ok := generic["message"].(string); ok {
		result.Message = v
	}
	return result
}

func formatWhatsAppAddress(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(trimmed), "whatsapp:") {
		return "whatsapp:" + strings.TrimSpace(trimmed[len("whatsapp:"):])
	}
	return "whatsapp:" + trimmed
}
