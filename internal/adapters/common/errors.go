package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/outreach-dispatch/internal/models"
)

// Sentinel errors used to classify transport failures.
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
)

// WrapValidation annotates an error as a destination validation failure.
func WrapValidation(err error) error {
	return wrap(ErrValidation, err)
}

// WrapConfiguration annotates an error as a missing or invalid configuration.
func WrapConfiguration(err error) error {
	return wrap(ErrConfiguration, err)
}

// WrapTransport annotates an error raised while talking to a provider.
func WrapTransport(err error) error {
	return wrap(ErrTransport, err)
}

func wrap(sentinel, err error) error {
	if err == nil {
		return sentinel
	}
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// KindOf maps an error onto a FailureKind. Unclassified errors, including
// context cancellation, are transport failures.
func KindOf(err error) models.FailureKind {
	switch {
	case err == nil:
		return models.FailureNone
	case errors.Is(err, ErrValidation):
		return models.FailureValidation
	case errors.Is(err, ErrConfiguration):
		return models.FailureConfiguration
	default:
		return models.FailureTransport
	}
}

// ConfigError reports that a channel cannot run because credentials are
// missing. Detail is the human readable text echoed into every outcome.
type ConfigError struct {
	Channel models.Channel
	Detail  string
	Missing []string
}

// NewConfigError returns a ConfigError wrapped as a configuration failure.
func NewConfigError(channel models.Channel, detail string, missing ...string) error {
	return WrapConfiguration(&ConfigError{Channel: channel, Detail: detail, Missing: missing})
}

func (e *ConfigError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("%s: %s", e.Channel, e.Detail)
	}
	return fmt.Sprintf("%s: %s (missing %s)", e.Channel, e.Detail, strings.Join(e.Missing, ", "))
}

// DetailOf extracts the outcome text for err. ConfigErrors yield their Detail;
// anything else yields err.Error().
func DetailOf(err error) string {
	if err == nil {
		return ""
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Detail
	}
	return err.Error()
}
