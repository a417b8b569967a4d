package whatsapp

import (
	"context"
	"time"
)

// Payload encapsulates the WhatsApp message to be sent via a provider.
type Payload struct {
	MessageID string
	From      string
	To        []string
	Body      string
}

// RawResponse captures the low-level provider response for a WhatsApp send.
type RawResponse struct {
	ID        string
	Code      int
	Status    string
	Body      string
	Message   string
	Timestamp time.Time
}

// Provider represents an outbound WhatsApp provider (e.g. Twilio).
type Provider interface {
	Send(ctx context.Context, payload *Payload) (*RawResponse, error)
}

// CredentialReporter is implemented by providers that need credentials which
// may be absent from the environment.
type CredentialReporter interface {
	MissingCredentials() []string
}
