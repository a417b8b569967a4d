package sms

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

// Scenario enumerates the mock behaviours supported by the SMS provider.
type Scenario string

const (
	ScenarioSuccess Scenario = "success"
	ScenarioFailure Scenario = "failure"
	ScenarioTimeout Scenario = "timeout"
)

// Option customises the mock provider.
type Option func(*MockProvider)

// WithScenario sets the scenario used for recipients without an override.
func WithScenario(s Scenario) Option {
	return func(p *MockProvider) {
		p.defaultScenario = s
	}
}

// WithRecipientScenario forces a scenario for one recipient number.
func WithRecipientScenario(to string, s Scenario) Option {
	return func(p *MockProvider) {
		p.overrides[strings.TrimSpace(to)] = s
	}
}

// WithLatency configures the artificial latency injected before sending.
func WithLatency(d time.Duration) Option {
	return func(p *MockProvider) {
		if d < 0 {
			d = 0
		}
		p.latency = d
	}
}

// WithClock overrides the clock used to timestamp responses (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(p *MockProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// MockProvider is a deterministic SMS provider used for dry runs and tests.
type MockProvider struct {
	logger          zerolog.Logger
	defaultScenario Scenario
	overrides       map[string]Scenario
	latency         time.Duration
	now             func() time.Time

	mu   sync.Mutex
	sent []Payload
}

// NewMockProvider constructs a mock SMS provider.
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

// Sent returns a copy of every payload the mock accepted for processing.
func (p *MockProvider) Sent() []Payload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Payload(nil), p.sent...)
}

// Send simulates sending an SMS payload according to the configured scenario.
func (p *MockProvider) Send(ctx context.Context, payload *Payload) (*RawResponse, error) {
	if payload == nil {
		return nil, errors.New("sms mock: payload is required")
	}
	if len(payload.To) == 0 {
		return nil, errors.New("sms mock: at least one recipient is required")
	}

	p.mu.Lock()
	p.sent = append(p.sent, *payload)
	p.mu.Unlock()

	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	scenario := p.defaultScenario
	if s, ok := p.overrides[strings.TrimSpace(payload.To[0])]; ok {
		scenario = s
	}

	response := &RawResponse{
		ID:        uuid.NewString(),
		Code:      http.StatusOK,
		Status:    "accepted",
		Body:      `{"return":true,"message":["mock: message accepted"]}`,
		Timestamp: p.now(),
	}

	switch scenario {
	case ScenarioSuccess:
		return response, nil
	case ScenarioFailure:
		response.Code = http.StatusBadRequest
		response.Status = "rejected"
		response.Body = `{"return":false,"message":"mock: invalid number"}`
		return response, fmt.Errorf("sms mock: http %d", response.Code)
	case ScenarioTimeout:
		<-ctx.Done()
		return nil, ctx.Err()
	default:
		return nil, fmt.Errorf("sms mock unknown scenario: %s", scenario)
	}
}

func (p *MockProvider) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(p.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
