package common

import (
	"context"

	"github.com/example/outreach-dispatch/internal/models"
)

// Transport delivers one DispatchRequest over a single channel. Implementations
// never panic and never return an error past this boundary: every failure is
// folded into the returned Result.
type Transport interface {
	Send(ctx context.Context, req *models.DispatchRequest) Result
}

// CredentialChecker is implemented by transports whose provider credentials
// may be absent. The batch runner calls it once per batch.
type CredentialChecker interface {
	CheckCredentials() error
}

// Result is the normalized outcome of a transport send.
type Result struct {
	Success bool
	Detail  string
	Kind    models.FailureKind
}

// Succeeded builds a successful Result.
func Succeeded(detail string) Result {
	return Result{Success: true, Detail: detail}
}

// Failed builds a failed Result carrying the classification of err.
func Failed(detail string, err error) Result {
	return Result{Detail: detail, Kind: KindOf(err)}
}

// FailedWith builds a failed Result with an explicit kind.
func FailedWith(kind models.FailureKind, detail string) Result {
	return Result{Detail: detail, Kind: kind}
}
