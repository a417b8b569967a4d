package sms

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	common "github.com/example/outreach-dispatch/internal/adapters/common"
	"github.com/example/outreach-dispatch/internal/models"
	smsprovider "github.com/example/outreach-dispatch/internal/providers/sms"
	"github.com/example/outreach-dispatch/internal/util"
)

// Option modifies adapter behaviour.
type Option func(*Adapter)

// WithRawBodyLimit overrides how much of the provider body is echoed in failure details.
func WithRawBodyLimit(limit int) Option {
	return func(a *Adapter) {
		if limit > 0 {
			a.maxRawChars = limit
		}
	}
}

// WithPhoneValidator sets the destination validator. Defaults to +91 numbers.
func WithPhoneValidator(v *util.PhoneValidator) Option {
	return func(a *Adapter) {
		if v != nil {
			a.phones = v
		}
	}
}

// Adapter implements common.Transport for the SMS channel.
type Adapter struct {
	logger      zerolog.Logger
	provider    smsprovider.Provider
	phones      *util.PhoneValidator
	maxRawChars int
}

// NewAdapter constructs an SMS adapter using the supplied provider.
func NewAdapter(provider smsprovider.Provider, logger zerolog.Logger, opts ...Option) (*Adapter, error) {
	if provider == nil {
		return nil, errors.New("sms adapter: provider dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	a := &Adapter{
		logger:      logger,
		provider:    provider,
		maxRawChars: common.DefaultRawBodyLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// CheckCredentials reports a configuration error when the provider lacks its API key.
func (a *Adapter) CheckCredentials() error {
	reporter, ok := a.provider.(smsprovider.CredentialReporter)
	if !ok {
		return nil
	}
	if missing := reporter.MissingCredentials(); len(missing) > 0 {
		return common.NewConfigError(models.ChannelSMS, "SMS credentials not configured", missing...)
	}
	return nil
}

// Send validates the destination number and delegates to the provider.
func (a *Adapter) Send(ctx context.Context, req *models.DispatchRequest) common.Result {
	if req == nil {
		return common.FailedWith(models.FailureInvalidRequest, "sms adapter: request is nil")
	}

	if !a.phones.Valid(req.Destination) {
		err := common.WrapValidation(a.phones.Check(req.Destination))
		return common.Failed(fmt.Sprintf("Invalid phone number: %s", req.Destination), err)
	}

	if err := a.CheckCredentials(); err != nil {
		return common.Failed(common.DetailOf(err), err)
	}

	raw, err := a.provider.Send(ctx, &smsprovider.Payload{
		To:   []string{req.Destination},
		Body: req.Content,
	})
	if err != nil {
		detail := err.Error()
		if raw != nil && raw.Code != 0 {
			detail = "SMS failed: " + common.TruncateRaw(strings.TrimSpace(raw.Body), a.maxRawChars)
		}
		event := a.logger.Warn().
			Str("channel", models.ChannelSMS.String()).
			Str("destination", util.MaskDestination(req.Destination)).
			Err(err)
		if raw != nil {
			event = event.Int("provider_code", raw.Code)
		}
		event.Msg("sms adapter send failed")
		return common.Failed(detail, common.WrapTransport(err))
	}

	event := a.logger.Info().
		Str("channel", models.ChannelSMS.String()).
		Str("destination", util.MaskDestination(req.Destination))
	if raw != nil {
		event = event.Str("provider_id", raw.ID)
	}
	event.Msg("sms sent")
	return common.Succeeded("SMS sent successfully")
}
