package voice

import (
	"context"
	"time"
)

// Payload describes one outbound call leg pairing.
type Payload struct {
	To string
	// Script is the content read or referenced by the call flow.
	Script string
}

// RawResponse captures the provider response for a call request.
type RawResponse struct {
	ID        string
	Code      int
	Status    string
	Body      string
	Timestamp time.Time
}

// Provider places outbound calls.
type Provider interface {
	Send(ctx context.Context, payload *Payload) (*RawResponse, error)
}

// CredentialReporter is implemented by providers that need credentials which
// may be absent from the environment.
type CredentialReporter interface {
	MissingCredentials() []string
}
