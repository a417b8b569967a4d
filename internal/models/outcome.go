package models

import "time"

// FailureKind classifies why a dispatch did not succeed.
type FailureKind string

// Failure kinds. Successful outcomes carry an empty kind.
const (
	FailureNone               FailureKind = ""
	FailureValidation         FailureKind = "validation"
	FailureConfiguration      FailureKind = "configuration"
	FailureTransport          FailureKind = "transport"
	FailureContent            FailureKind = "content"
	FailureMissingContact     FailureKind = "missing_contact"
	FailureUnsupportedChannel FailureKind = "unsupported_channel"
	FailureInvalidRequest     FailureKind = "invalid_request"
)

// DispatchOutcome is created exactly once per contact in a batch.
type DispatchOutcome struct {
	Contact Contact     `json:"contact"`
	Success bool        `json:"success"`
	Detail  string      `json:"detail"`
	Kind    FailureKind `json:"kind,omitempty"`
}

// BatchReport partitions a batch's outcomes. Both slices keep input order.
type BatchReport struct {
	BatchID   string            `json:"batch_id"`
	Channel   Channel           `json:"channel"`
	Successes []DispatchOutcome `json:"successes"`
	Failures  []DispatchOutcome `json:"failures"`
}

// SuccessCount returns the number of successful outcomes.
func (r BatchReport) SuccessCount() int { return len(r.Successes) }

// FailureCount returns the number of failed outcomes.
func (r BatchReport) FailureCount() int { return len(r.Failures) }

// Total returns the number of contacts processed.
func (r BatchReport) Total() int { return len(r.Successes) + len(r.Failures) }

// OutcomeEvent is the wire form of one outcome emitted to the event sink.
type OutcomeEvent struct {
	BatchID     string      `json:"batch_id"`
	Row         int         `json:"row"`
	Channel     Channel     `json:"channel"`
	Name        string      `json:"name,omitempty"`
	Destination string      `json:"destination,omitempty"`
	Success     bool        `json:"success"`
	Kind        FailureKind `json:"kind,omitempty"`
	Detail      string      `json:"detail"`
	Timestamp   time.Time   `json:"timestamp"`
}
