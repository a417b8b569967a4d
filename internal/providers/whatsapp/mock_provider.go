package whatsapp

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

// Scenario enumerates supported behaviours for the mock WhatsApp provider.
type Scenario string

const (
	ScenarioSuccess Scenario = "success"
	ScenarioFailure Scenario = "failure"
	ScenarioTimeout Scenario = "timeout"
)

// Option customises the mock provider at construction time.
type Option func(*MockProvider)

// WithScenario overrides the default scenario.
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

// WithLatency sets the artificial latency inserted before responding.
func WithLatency(d time.Duration) Option {
	return func(p *MockProvider) {
		if d < 0 {
			d = 0
		}
		p.latency = d
	}
}

// WithClock swaps out the clock for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(p *MockProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// MockProvider implements a deterministic WhatsApp provider suitable for tests.
type MockProvider struct {
	logger          zerolog.Logger
	defaultScenario Scenario
	overrides       map[string]Scenario
	latency         time.Duration
	now             func() time.Time

	mu   sync.Mutex
	sent []Payload
}

// NewMockProvider constructs a new mock WhatsApp provider.
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

// Sent returns a copy of every payload the mock received.
func (p *MockProvider) Sent() []Payload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Payload(nil), p.sent...)
}

// Send simulates sending a WhatsApp payload.
func (p *MockProvider) Send(ctx context.Context, payload *Payload) (*RawResponse, error) {
	if payload == nil {
		return nil, errors.New("whatsapp mock: payload is required")
	}
	if len(payload.To) == 0 {
		return nil, errors.New("whatsapp mock: at least one recipient is required")
	}

	p.mu.Lock()
	p.sent = append(p.sent, *payload)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.latency > 0 {
		timer := time.NewTimer(p.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	scenario := p.defaultScenario
	if s, ok := p.overrides[strings.TrimSpace(payload.To[0])]; ok {
		scenario = s
	}

	resp := &RawResponse{
		ID:        "SM" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Code:      http.StatusCreated,
		Status:    "queued",
		Body:      `{"status":"queued"}`,
		Timestamp: p.now(),
	}

	switch scenario {
	case ScenarioSuccess:
		return resp, nil
	case ScenarioFailure:
		resp.ID = ""
		resp.Code = http.StatusBadRequest
		resp.Status = "failed"
		resp.Message = "mock: recipient has not joined the sandbox"
		resp.Body = `{"code":63015,"message":"mock: recipient has not joined the sandbox"}`
		return resp, fmt.Errorf("whatsapp mock: error 63015: %s", resp.Message)
	case ScenarioTimeout:
		<-ctx.Done()
		return nil, ctx.Err()
	default:
		return nil, fmt.Errorf("whatsapp mock unknown scenario: %s", scenario)
	}
}
