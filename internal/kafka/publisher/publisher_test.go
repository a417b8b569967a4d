package publisher_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	kafkapublisher "github.com/example/outreach-dispatch/internal/kafka/publisher"
	"github.com/example/outreach-dispatch/internal/models"
)

type fakeSyncProducer struct {
	err     error
	topic   string
	key     []byte
	headers map[string][]byte
	payload []byte
}

func (f *fakeSyncProducer) PublishSync(topic string, key []byte, headers map[string][]byte, payload []byte) error {
	f.topic = topic
	f.key = append([]byte(nil), key...)
	f.headers = headers
	f.payload = append([]byte(nil), payload...)
	return f.err
}

func TestOutcomePublisherPublishesEvent(t *testing.T) {
	prod := &fakeSyncProducer{}
	pub := kafkapublisher.NewOutcomePublisher(prod, "outreach.outcomes", zerolog.Nop())
	if pub == nil {
		t.Fatalf("expected publisher instance")
	}

	event := models.OutcomeEvent{
		BatchID:     "batch-7",
		Row:         3,
		Channel:     models.ChannelWhatsApp,
		Name:        "Asha",
		Destination: "+91******3210",
		Success:     false,
		Kind:        models.FailureValidation,
		Detail:      "Invalid WhatsApp number: 12",
		Timestamp:   time.Unix(123, 0).UTC(),
	}

	if err := pub.PublishOutcome(context.Background(), event); err != nil {
		t.Fatalf("unexpected publish error: %v", err)
	}

	if prod.topic != "outreach.outcomes" {
		t.Fatalf("expected topic outreach.outcomes, got %s", prod.topic)
	}
	if string(prod.key) != "batch-7" {
		t.Fatalf("expected key batch-7, got %s", string(prod.key))
	}
	if ct := prod.headers["content-type"]; string(ct) != "application/json" {
		t.Fatalf("expected content-type header, got %s", string(ct))
	}
	if row := prod.headers["row"]; string(row) != "3" {
		t.Fatalf("expected row header 3, got %s", string(row))
	}

	var payload models.OutcomeEvent
	if err := json.Unmarshal(prod.payload, &payload); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if payload.Kind != models.FailureValidation || payload.Channel != models.ChannelWhatsApp || payload.Detail != event.Detail {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestOutcomePublisherPropagatesProducerError(t *testing.T) {
	expectedErr := errors.New("broker down")
	prod := &fakeSyncProducer{err: expectedErr}

	pub := kafkapublisher.NewOutcomePublisher(prod, "outreach.outcomes", zerolog.Nop())
	err := pub.PublishOutcome(context.Background(), models.OutcomeEvent{BatchID: "id"})
	if !errors.Is(err, expectedErr) {
		t.Fatalf("expected producer error, got %v", err)
	}
}

func TestOutcomePublisherNilProducer(t *testing.T) {
	if pub := kafkapublisher.NewOutcomePublisher(nil, "t", zerolog.Nop()); pub != nil {
		t.Fatalf("expected nil publisher for nil producer")
	}
	var pub *kafkapublisher.OutcomePublisher
	if err := pub.PublishOutcome(context.Background(), models.OutcomeEvent{}); !errors.Is(err, kafkapublisher.ErrProducerNotInitialised()) {
		t.Fatalf("expected not initialised error, got %v", err)
	}
}
