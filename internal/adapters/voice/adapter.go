package voice

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	common "github.com/example/outreach-dispatch/internal/adapters/common"
	"github.com/example/outreach-dispatch/internal/models"
	voiceprovider "github.com/example/outreach-dispatch/internal/providers/voice"
	"github.com/example/outreach-dispatch/internal/util"
)

// Option customises adapter behaviour.
type Option func(*Adapter)

// WithPhoneValidator sets the callee validator. Defaults to +91 numbers.
func WithPhoneValidator(v *util.PhoneValidator) Option {
	return func(a *Adapter) {
		if v != nil {
			a.phones = v
		}
	}
}

// WithRawBodyLimit overrides how much of the provider body is echoed in failure details.
func WithRawBodyLimit(limit int) Option {
	return func(a *Adapter) {
		if limit > 0 {
			a.maxRawChars = limit
		}
	}
}

// Adapter implements common.Transport for voice calls. The contact is the
// callee; the caller pairing comes from provider configuration.
type Adapter struct {
	logger      zerolog.Logger
	provider    voiceprovider.Provider
	phones      *util.PhoneValidator
	maxRawChars int
}

// NewAdapter constructs a voice adapter.
func NewAdapter(provider voiceprovider.Provider, logger zerolog.Logger, opts ...Option) (*Adapter, error) {
	if provider == nil {
		return nil, errors.New("voice adapter: provider dependency is required")
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

// CheckCredentials reports missing Exotel settings.
func (a *Adapter) CheckCredentials() error {
	reporter, ok := a.provider.(voiceprovider.CredentialReporter)
	if !ok {
		return nil
	}
	if missing := reporter.MissingCredentials(); len(missing) > 0 {
		return common.NewConfigError(models.ChannelCall, "Exotel credentials not configured", missing...)
	}
	return nil
}

// Send validates the callee and requests the call.
func (a *Adapter) Send(ctx context.Context, req *models.DispatchRequest) common.Result {
	if req == nil {
		return common.FailedWith(models.FailureInvalidRequest, "voice adapter: request is nil")
	}

	if !a.phones.Valid(req.Destination) {
		err := common.WrapValidation(a.phones.Check(req.Destination))
		return common.Failed(fmt.Sprintf("Invalid phone number for call: %s", req.Destination), err)
	}

	if err := a.CheckCredentials(); err != nil {
		return common.Failed(common.DetailOf(err), err)
	}

	raw, err := a.provider.Send(ctx, &voiceprovider.Payload{
		To:     req.Destination,
		Script: req.Content,
	})
	if err != nil {
		detail := err.Error()
		if raw != nil && raw.Code != 0 {
			detail = "Call failed: " + common.TruncateRaw(strings.TrimSpace(raw.Body), a.maxRawChars)
		}
		a.logger.Warn().
			Str("channel", models.ChannelCall.String()).
			Str("destination", util.MaskDestination(req.Destination)).
			Err(err).
			Msg("voice adapter send failed")
		return common.Failed(detail, common.WrapTransport(err))
	}

	event := a.logger.Info().
		Str("channel", models.ChannelCall.String()).
		Str("destination", util.MaskDestination(req.Destination))
	if raw != nil {
		event = event.Str("call_sid", raw.ID).Str("call_status", raw.Status)
	}
	event.Msg("call initiated")
	return common.Succeeded("Call initiated successfully")
}
