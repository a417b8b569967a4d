package whatsapp_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	waadapter "github.com/example/outreach-dispatch/internal/adapters/whatsapp"
	"github.com/example/outreach-dispatch/internal/config"
	"github.com/example/outreach-dispatch/internal/models"
	waprovider "github.com/example/outreach-dispatch/internal/providers/whatsapp"
)

func request(dest string) *models.DispatchRequest {
	return &models.DispatchRequest{Channel: models.ChannelWhatsApp, Destination: dest, Content: "hello via whatsapp"}
}

func TestAdapterSendSuccess(t *testing.T) {
	provider := waprovider.NewMockProvider(zerolog.Nop())
	adapter, err := waadapter.NewAdapter(provider, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	res := adapter.Send(context.Background(), request("+919876543210"))
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if !strings.HasPrefix(res.Detail, "WhatsApp sent: SM") {
		t.Fatalf("unexpected detail %q", res.Detail)
	}
}

func TestAdapterInvalidNumber(t *testing.T) {
	provider := waprovider.NewMockProvider(zerolog.Nop())
	adapter, _ := waadapter.NewAdapter(provider, zerolog.Nop())

	res := adapter.Send(context.Background(), request("9876543210"))
	if res.Success || res.Detail != "Invalid WhatsApp number: 9876543210" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(provider.Sent()) != 0 {
		t.Fatalf("expected no provider calls")
	}
}

func TestAdapterProviderFailureEchoesMessage(t *testing.T) {
	provider := waprovider.NewMockProvider(zerolog.Nop(), waprovider.WithScenario(waprovider.ScenarioFailure))
	adapter, _ := waadapter.NewAdapter(provider, zerolog.Nop())

	res := adapter.Send(context.Background(), request("+919876543210"))
	if res.Success || res.Detail != "mock: recipient has not joined the sandbox" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Kind != models.FailureTransport {
		t.Fatalf("unexpected kind %q", res.Kind)
	}
}

func TestAdapterMissingCredentials(t *testing.T) {
	provider, err := waprovider.NewTwilioProvider(config.TwilioConfig{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected provider error: %v", err)
	}
	adapter, _ := waadapter.NewAdapter(provider, zerolog.Nop())

	res := adapter.Send(context.Background(), request("+919876543210"))
	if res.Success || res.Detail != "Twilio credentials not configured" || res.Kind != models.FailureConfiguration {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestAdapterValidatesBeforeCredentials(t *testing.T) {
	provider, _ := waprovider.NewTwilioProvider(config.TwilioConfig{}, zerolog.Nop())
	adapter, _ := waadapter.NewAdapter(provider, zerolog.Nop())

	res := adapter.Send(context.Background(), request("bad"))
	if res.Detail != "Invalid WhatsApp number: bad" {
		t.Fatalf("expected validation to run first, got %+v", res)
	}
}
