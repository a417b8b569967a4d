package common

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/outreach-dispatch/internal/models"
)

func TestWrapHelpers(t *testing.T) {
	base := errors.New("boom")
	cases := []struct {
		name     string
		wrapped  error
		sentinel error
		kind     models.FailureKind
	}{
		{"validation", WrapValidation(base), ErrValidation, models.FailureValidation},
		{"configuration", WrapConfiguration(base), ErrConfiguration, models.FailureConfiguration},
		{"transport", WrapTransport(base), ErrTransport, models.FailureTransport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.wrapped, tc.sentinel) {
				t.Fatalf("expected %v to wrap %v", tc.wrapped, tc.sentinel)
			}
			if !errors.Is(tc.wrapped, base) {
				t.Fatalf("expected wrapped error to keep the original in its chain")
			}
			if !strings.Contains(tc.wrapped.Error(), base.Error()) {
				t.Fatalf("expected wrapped error message to include original message")
			}
			if got := KindOf(tc.wrapped); got != tc.kind {
				t.Fatalf("KindOf = %q, want %q", got, tc.kind)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if !errors.Is(WrapValidation(nil), ErrValidation) {
		t.Fatalf("expected nil validation wrap to fall back to ErrValidation")
	}
	if !errors.Is(WrapTransport(nil), ErrTransport) {
		t.Fatalf("expected nil transport wrap to fall back to ErrTransport")
	}
}

func TestWrapIsIdempotent(t *testing.T) {
	once := WrapTransport(errors.New("x"))
	if twice := WrapTransport(once); twice != once {
		t.Fatalf("expected re-wrapping to return the same error")
	}
}

func TestKindOfDefaults(t *testing.T) {
	if got := KindOf(nil); got != models.FailureNone {
		t.Fatalf("KindOf(nil) = %q", got)
	}
	if got := KindOf(context.DeadlineExceeded); got != models.FailureTransport {
		t.Fatalf("KindOf(deadline) = %q", got)
	}
}

func TestConfigErrorDetail(t *testing.T) {
	err := NewConfigError(models.ChannelEmail, "Email credentials not configured", "EMAIL_ADDRESS")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration sentinel")
	}
	if got := DetailOf(err); got != "Email credentials not configured" {
		t.Fatalf("DetailOf = %q", got)
	}
	if !strings.Contains(err.Error(), "EMAIL_ADDRESS") {
		t.Fatalf("expected missing keys in error text: %v", err)
	}
	if got := DetailOf(errors.New("plain")); got != "plain" {
		t.Fatalf("DetailOf(plain) = %q", got)
	}
}

func TestResultConstructors(t *testing.T) {
	ok := Succeeded("done")
	if !ok.Success || ok.Kind != models.FailureNone {
		t.Fatalf("unexpected success result %+v", ok)
	}
	failed := Failed("bad", WrapValidation(errors.New("bad")))
	if failed.Success || failed.Kind != models.FailureValidation {
		t.Fatalf("unexpected failed result %+v", failed)
	}
}

func TestTruncateRaw(t *testing.T) {
	if got := TruncateRaw("héllo", 2); got != "hé" {
		t.Fatalf("TruncateRaw = %q", got)
	}
	if got := TruncateRaw("abc", 10); got != "abc" {
		t.Fatalf("TruncateRaw = %q", got)
	}
	if got := TruncateRaw("abc", 0); got != "" {
		t.Fatalf("TruncateRaw zero limit = %q", got)
	}
}

func TestReadBodyLimit(t *testing.T) {
	got, err := ReadBody(strings.NewReader("abcdef"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "abc" {
		t.Fatalf("ReadBody = %q", got)
	}
}
