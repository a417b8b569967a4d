package email

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Scenario enumerates the supported mock behaviours.
type Scenario string

const (
	ScenarioSuccess Scenario = "success"
	ScenarioFailure Scenario = "failure"
	ScenarioTimeout Scenario = "timeout"
)

// Option customizes the behaviour of the mock provider at construction time.
type Option func(*MockProvider)

// WithLatencyRange overrides the latency range used when simulating work.
// Negative values are clamped to zero and max < min is coerced to min.
func WithLatencyRange(min, max time.Duration) Option {
	return func(p *MockProvider) {
		if min < 0 {
			min = 0
		}
		if max < 0 {
			max = 0
		}
		if max < min {
			max = min
		}
		p.minLatency = min
		p.maxLatency = max
	}
}

// WithDefaultScenario configures the behaviour for recipients without an override.
func WithDefaultScenario(s Scenario) Option {
	return func(p *MockProvider) {
		p.defaultScenario = s
	}
}

// WithRecipientScenario forces a scenario for one recipient address.
func WithRecipientScenario(to string, s Scenario) Option {
	return func(p *MockProvider) {
		p.overrides[strings.ToLower(strings.TrimSpace(to))] = s
	}
}

// WithRandomSeed swaps the RNG seed used when sampling latency.
func WithRandomSeed(seed int64) Option {
	return func(p *MockProvider) {
		p.rnd = rand.New(rand.NewSource(seed)) // #nosec G404 -- deterministic seed for tests.
	}
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *MockProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// MockProvider implements a deterministic SMTP provider suitable for dry runs
// and automated testing. It never opens a network connection.
type MockProvider struct {
	logger          zerolog.Logger
	minLatency      time.Duration
	maxLatency      time.Duration
	defaultScenario Scenario
	overrides       map[string]Scenario
	now             func() time.Time

	mu   sync.Mutex
	rnd  *rand.Rand
	sent []Payload
}

// NewMockProvider constructs a mock SMTP provider. By default it succeeds
// immediately.
func NewMockProvider(logger zerolog.Logger, opts ...Option) *MockProvider {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	p := &MockProvider{
		logger:          logger,
		defaultScenario: ScenarioSuccess,
		overrides:       make(map[string]Scenario),
		now:             time.Now,
		rnd:             rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404
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

// Send simulates delivering the supplied payload.
func (p *MockProvider) Send(ctx context.Context, payload *Payload) (*RawResponse, error) {
	if payload == nil {
		return nil, errors.New("email mock: payload is required")
	}
	if len(payload.To) == 0 {
		return nil, errors.New("email mock: at least one recipient is required")
	}

	p.mu.Lock()
	p.sent = append(p.sent, *payload)
	p.mu.Unlock()

	if latency := p.sampleLatency(); latency > 0 {
		if err := p.sleep(ctx, latency); err != nil {
			return nil, err
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	scenario := p.defaultScenario
	if s, ok := p.overrides[strings.ToLower(strings.TrimSpace(payload.To[0]))]; ok {
		scenario = s
	}
	p.logger.Debug().
		Str("provider", "mock_smtp").
		Str("scenario", string(scenario)).
		Int("attachments", len(payload.Attachments)).
		Msg("mock email provider invoked")

	switch scenario {
	case ScenarioFailure:
		resp := p.baseResponse(payload, 550, "mock: mailbox unavailable")
		return resp, fmt.Errorf("550 %s", resp.Body)
	case ScenarioTimeout:
		<-ctx.Done()
		return nil, ctx.Err()
	default:
		return p.baseResponse(payload, 250, "mock: message queued"), nil
	}
}

func (p *MockProvider) sampleLatency() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxLatency <= p.minLatency {
		return p.minLatency
	}
	delta := p.maxLatency - p.minLatency
	return p.minLatency + time.Duration(p.rnd.Int63n(int64(delta)+1))
}

func (p *MockProvider) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *MockProvider) baseResponse(payload *Payload, code int, body string) *RawResponse {
	id := payload.MessageID
	if id == "" {
		id = uuid.NewString()
	}
	return &RawResponse{
		ID:        id,
		Code:      code,
		Body:      body,
		Timestamp: p.now(),
	}
}
