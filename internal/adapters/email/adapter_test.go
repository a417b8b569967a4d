package email_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	emailadapter "github.com/example/outreach-dispatch/internal/adapters/email"
	"github.com/example/outreach-dispatch/internal/config"
	"github.com/example/outreach-dispatch/internal/models"
	emailprovider "github.com/example/outreach-dispatch/internal/providers/email"
)

func TestAdapterSendSuccessWithAttachments(t *testing.T) {
	provider := emailprovider.NewMockProvider(zerolog.Nop())
	adapter, err := emailadapter.NewAdapter(provider, zerolog.Nop(), emailadapter.WithDefaultSubject("Admissions"))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	res := adapter.Send(context.Background(), &models.DispatchRequest{
		Channel:     models.ChannelEmail,
		Destination: "asha@example.com",
		DisplayName: "Asha",
		Content:     "Hello Asha",
		Attachments: []models.FileBlob{
			{Filename: "brochure.pdf", Data: []byte("pdf")},
			{Filename: "", Data: []byte("orphan")},
			{Filename: "empty.txt"},
		},
	})
	if !res.Success || res.Detail != "Email sent to Asha successfully" {
		t.Fatalf("unexpected result %+v", res)
	}

	sent := provider.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected one payload, got %d", len(sent))
	}
	if sent[0].Subject != "Admissions" {
		t.Fatalf("expected default subject, got %q", sent[0].Subject)
	}
	if len(sent[0].Attachments) != 1 || sent[0].Attachments[0].Filename != "brochure.pdf" {
		t.Fatalf("unexpected attachments %+v", sent[0].Attachments)
	}
}

func TestAdapterSubjectOverridesDefault(t *testing.T) {
	provider := emailprovider.NewMockProvider(zerolog.Nop())
	adapter, _ := emailadapter.NewAdapter(provider, zerolog.Nop(), emailadapter.WithDefaultSubject("Default"))

	adapter.Send(context.Background(), &models.DispatchRequest{Destination: "a@example.com", Subject: "Custom", Content: "x"})
	if got := provider.Sent()[0].Subject; got != "Custom" {
		t.Fatalf("subject = %q", got)
	}
}

func TestAdapterInvalidAddress(t *testing.T) {
	provider := emailprovider.NewMockProvider(zerolog.Nop())
	adapter, _ := emailadapter.NewAdapter(provider, zerolog.Nop())

	res := adapter.Send(context.Background(), &models.DispatchRequest{Destination: "not-an-email", Content: "x"})
	if res.Success || res.Detail != "Invalid email address: not-an-email" || res.Kind != models.FailureValidation {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(provider.Sent()) != 0 {
		t.Fatalf("expected no provider calls")
	}
}

func TestAdapterMissingCredentials(t *testing.T) {
	provider, err := emailprovider.NewSMTPProvider(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected provider error: %v", err)
	}
	adapter, _ := emailadapter.NewAdapter(provider, zerolog.Nop())

	res := adapter.Send(context.Background(), &models.DispatchRequest{Destination: "a@example.com", Content: "x"})
	if res.Success || res.Detail != "Email credentials not configured" || res.Kind != models.FailureConfiguration {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestAdapterProviderErrorIsDetail(t *testing.T) {
	provider := emailprovider.NewMockProvider(zerolog.Nop(), emailprovider.WithDefaultScenario(emailprovider.ScenarioFailure))
	adapter, _ := emailadapter.NewAdapter(provider, zerolog.Nop())

	res := adapter.Send(context.Background(), &models.DispatchRequest{Destination: "a@example.com", Content: "x"})
	if res.Success || res.Detail != "550 mock: mailbox unavailable" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Kind != models.FailureTransport {
		t.Fatalf("unexpected kind %q", res.Kind)
	}
}

func TestAdapterFallbackName(t *testing.T) {
	adapter, _ := emailadapter.NewAdapter(emailprovider.NewMockProvider(zerolog.Nop()), zerolog.Nop())
	res := adapter.Send(context.Background(), &models.DispatchRequest{Destination: "a@example.com", Content: "x"})
	if res.Detail != "Email sent to User successfully" {
		t.Fatalf("unexpected detail %q", res.Detail)
	}
}
