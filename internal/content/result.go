package content

import "strings"

// ErrorMarker prefixes generation failures when they are rendered as text.
const ErrorMarker = "[ERROR]"

// Result is either generated text or a generation failure.
type Result struct {
	text   string
	reason string
	failed bool
}

// Text wraps successfully resolved content.
func Text(s string) Result {
	return Result{text: s}
}

// GenerationFailed records why content could not be produced.
func GenerationFailed(reason string) Result {
	return Result{reason: strings.TrimSpace(reason), failed: true}
}

// Failed reports whether generation failed.
func (r Result) Failed() bool { return r.failed }

// Reason returns the failure reason, empty on success.
func (r Result) Reason() string { return r.reason }

// Body returns the text to send. Failures render as "[ERROR] <reason>" and are
// still sent.
func (r Result) Body() string {
	if r.failed {
		return ErrorMarker + " " + r.reason
	}
	return r.text
}
