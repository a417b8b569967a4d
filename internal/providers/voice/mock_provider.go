package voice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Scenario enumerates supported behaviours for the mock voice provider.
type Scenario string

const (
	ScenarioSuccess Scenario = "success"
	ScenarioFailure Scenario = "failure"
	ScenarioTimeout Scenario = "timeout"
)

// Option customises the mock provider.
type Option func(*MockProvider)

// WithScenario overrides the default scenario.
func WithScenario(s Scenario) Option {
	return func(p *MockProvider) {
		p.defaultScenario = s
	}
}

// WithRecipientScenario forces a scenario for one callee.
func WithRecipientScenario(to string, s Scenario) Option {
	return func(p *MockProvider) {
		p.overrides[strings.TrimSpace(to)] = s
	}
}

// WithClock swaps the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *MockProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// MockProvider simulates call placement without telephony.
type MockProvider struct {
	logger          zerolog.Logger
	defaultScenario Scenario
	overrides       map[string]Scenario
	now             func() time.Time

	mu    sync.Mutex
	calls []Payload
}

// NewMockProvider constructs a mock voice provider.
func NewMockProvider(logger zerolog.Logger, opts ...Option) *MockProvider {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	p := &MockProvider{
		logger:          logger,
		defaultScenario: ScenarioSuccess,
		overrides:       make(map[string]Scenario),
		now:             time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Calls returns a copy of every call request received.
func (p *MockProvider) Calls() []Payload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Payload(nil), p.calls...)
}

// Send simulates a call request.
func (p *MockProvider) Send(ctx context.Context, payload *Payload) (*RawResponse, error) {
	if payload == nil {
		return nil, errors.New("voice mock: payload is required")
	}
	if strings.TrimSpace(payload.To) == "" {
		return nil, errors.New("voice mock: recipient is required")
	}

	p.mu.Lock()
	p.calls = append(p.calls, *payload)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scenario := p.defaultScenario
	if s, ok := p.overrides[strings.TrimSpace(payload.To)]; ok {
		scenario = s
	}

	switch scenario {
	case ScenarioSuccess:
		return &RawResponse{
			ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
			Code:      http.StatusOK,
			Status:    "in-progress",
			Body:      `{"Call":{"Status":"in-progress"}}`,
			Timestamp: p.now(),
		}, nil
	case ScenarioFailure:
		raw := &RawResponse{
			Code:      http.StatusForbidden,
			Status:    "failed",
			Body:      `{"RestException":{"Status":403,"Message":"mock: number is on DND"}}`,
			Timestamp: p.now(),
		}
		return raw, fmt.Errorf("voice mock: http %d", raw.Code)
	case ScenarioTimeout:
		<-ctx.Done()
		return nil, ctx.Err()
	default:
		return nil, fmt.Errorf("voice mock unknown scenario: %s", scenario)
	}
}
