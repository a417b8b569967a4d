package voice

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

const defaultExotelSubdomain = "twilix.exotel.in"

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ExotelOption customises the Exotel provider.
type ExotelOption func(*ExotelProvider)

// WithExotelHTTPClient overrides the HTTP client.
func WithExotelHTTPClient(client HTTPClient) ExotelOption {
	return func(p *ExotelProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithExotelBaseURL replaces the scheme and host the connect API is called on.
func WithExotelBaseURL(baseURL string) ExotelOption {
	return func(p *ExotelProvider) {
		if strings.TrimSpace(baseURL) != "" {
			p.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		}
	}
}

// WithExotelClock overrides the clock used for timestamps.
func WithExotelClock(now func() time.Time) ExotelOption {
	return func(p *ExotelProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// ExotelProvider connects the configured agent number to a contact through
// Exotel's Calls/connect API. The exophone is shown as caller id.
type ExotelProvider struct {
	logger         zerolog.Logger
	sid            string
	token          string
	exoPhone       string
	from           string
	statusCallback string
	timeLimit      int
	ringTimeout    int
	baseURL        string
	httpClient     HTTPClient
	now            func() time.Time
}

// NewExotelProvider constructs the provider. Missing credentials are reported
// through MissingCredentials.
func NewExotelProvider(cfg config.ExotelConfig, logger zerolog.Logger, opts ...ExotelOption) (*ExotelProvider, error) {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	subdomain := strings.TrimSpace(cfg.Subdomain)
	if subdomain == "" {
		subdomain = defaultExotelSubdomain
	}

	p := &ExotelProvider{
		logger:         logger,
		sid:            strings.TrimSpace(cfg.SID),
		token:          strings.TrimSpace(cfg.Token),
		exoPhone:       strings.TrimSpace(cfg.ExoPhone),
		from:           strings.TrimSpace(cfg.From),
		statusCallback: strings.TrimSpace(cfg.StatusCallback),
		timeLimit:      cfg.TimeLimit,
		ringTimeout:    cfg.RingTimeout,
		baseURL:        "https://" + subdomain,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		now:            time.Now,
	}
	if p.timeLimit <= 0 {
		p.timeLimit = 30
	}
	if p.ringTimeout <= 0 {
		p.ringTimeout = 10
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	if _, err := url.ParseRequestURI(p.baseURL); err != nil {
		return nil, fmt.Errorf("exotel provider: invalid base url %q: %w", p.baseURL, err)
	}
	return p, nil
}

// MissingCredentials lists unset credential keys.
func (p *ExotelProvider) MissingCredentials() []string {
	var missing []string
	if p.sid == "" {
		missing = append(missing, "EXOTEL_SID")
	}
	if p.token == "" {
		missing = append(missing, "EXOTEL_TOKEN")
	}
	if p.exoPhone == "" {
		missing = append(missing, "EXOPHONE")
	}
	if p.from == "" {
		missing = append(missing, "EXOTEL_FROM")
	}
	return missing
}

// Send requests a transactional call to payload.To. Only a 200 response
// counts as accepted.
func (p *ExotelProvider) Send(ctx context.Context, payload *Payload) (*RawResponse, error) {
	if payload == nil {
		return nil, errors.New("exotel provider: payload is required")
	}
	if strings.TrimSpace(payload.To) == "" {
		return nil, errors.New("exotel provider: recipient is required")
	}
	if missing := p.MissingCredentials(); len(missing) > 0 {
		return nil, fmt.Errorf("exotel provider: missing %s", strings.Join(missing, ", "))
	}

	form := url.Values{}
	form.Set("From", p.from)
	form.Set("To", strings.TrimSpace(payload.To))
	form.Set("CallerId", p.exoPhone)
	form.Set("CallType", "trans")
	form.Set("TimeLimit", strconv.Itoa(p.timeLimit))
	form.Set("TimeOut", strconv.Itoa(p.ringTimeout))
	if p.statusCallback != "" {
		form.Set("StatusCallback", p.statusCallback)
	}
	if strings.TrimSpace(payload.Script) != "" {
		form.Set("CustomField", payload.Script)
	}

	endpoint := fmt.Sprintf("%s/v1/Accounts/%s/Calls/connect", p.baseURL, url.PathEscape(p.sid))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("exotel provider: new request: %w", err)
	}
	req.SetBasicAuth(p.sid, p.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exotel provider: http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := common.ReadBody(resp.Body, 0)
	if err != nil {
		return nil, fmt.Errorf("exotel provider: %w", err)
	}

	parsed := parseExotelBody(body)
	raw := &RawResponse{
		ID:        parsed.Call.Sid,
		Code:      resp.StatusCode,
		Status:    parsed.Call.Status,
		Body:      body,
		Timestamp: p.now(),
	}
	if raw.Status == "" {
		raw.Status = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return raw, fmt.Errorf("exotel provider: http %d", resp.StatusCode)
	}
	p.logger.Debug().Str("call_sid", raw.ID).Str("call_status", raw.Status).Msg("exotel call queued")
	return raw, nil
}

type exotelBody struct {
	Call struct {
		Sid    string `json:"Sid"`
		Status string `json:"Status"`
	} `json:"Call"`
}

func parseExotelBody(body string) exotelBody {
	var parsed exotelBody
	if strings.TrimSpace(body) == "" {
		return parsed
	}
	_ = json.Unmarshal([]byte(body), &parsed)
	return parsed
}
