package email

import (
	"context"
	"time"
)

// Attachment is a file carried by an outbound email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Payload is the canonical representation of an outbound email passed to the
// provider. Adapters are expected to normalize their inputs to this structure.
type Payload struct {
	MessageID   string
	From        string
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// RawResponse mirrors the low level provider response that adapters inspect.
type RawResponse struct {
	ID        string
	Code      int
	Body      string
	Timestamp time.Time
}

// Provider is the contract exposed by the email provider implementation.
type Provider interface {
	Send(ctx context.Context, payload *Payload) (*RawResponse, error)
}

// CredentialReporter is implemented by providers that need credentials which
// may be absent from the environment.
type CredentialReporter interface {
	MissingCredentials() []string
}
