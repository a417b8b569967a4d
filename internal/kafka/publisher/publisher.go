package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/example/outreach-dispatch/internal/models"
)

var errProducerNotInitialised = errors.New("kafka publisher: producer not initialised")

// SyncProducer captures the subset of producer behaviour the publisher needs.
type SyncProducer interface {
	PublishSync(topic string, key []byte, headers map[string][]byte, payload []byte) error
}

// ErrProducerNotInitialised exposes the sentinel error for callers and tests.
func ErrProducerNotInitialised() error {
	return errProducerNotInitialised
}

// OutcomePublisher writes dispatch outcome events to a Kafka topic. Events
// are keyed by batch id so one batch lands on one partition in order.
type OutcomePublisher struct {
	producer SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewOutcomePublisher constructs an OutcomePublisher. It returns nil when prod
// is nil.
func NewOutcomePublisher(prod SyncProducer, topic string, logger zerolog.Logger) *OutcomePublisher {
	if prod == nil {
		return nil
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &OutcomePublisher{
		producer: prod,
		topic:    topic,
		logger:   logger,
	}
}

// PublishOutcome writes event to Kafka synchronously.
func (p *OutcomePublisher) PublishOutcome(_ context.Context, event models.OutcomeEvent) error {
	if p == nil || p.producer == nil {
		return errProducerNotInitialised
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka publisher: marshal outcome event: %w", err)
	}

	headers := map[string][]byte{
		"content-type": []byte("application/json"),
		"channel":      []byte(event.Channel.String()),
		"row":          []byte(strconv.Itoa(event.Row)),
	}

	if err := p.producer.PublishSync(p.topic, []byte(event.BatchID), headers, payload); err != nil {
		return fmt.Errorf("kafka publisher: publish outcome event: %w", err)
	}
	p.logger.Debug().
		Str("batch_id", event.BatchID).
		Int("row", event.Row).
		Bool("success", event.Success).
		Msg("outcome event published")
	return nil
}
