package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	common "github.com/example/outreach-dispatch/internal/adapters/common"
	"github.com/example/outreach-dispatch/internal/models"
	waprovider "github.com/example/outreach-dispatch/internal/providers/whatsapp"
	"github.com/example/outreach-dispatch/internal/util"
)

// Option customises adapter behaviour.
type Option func(*Adapter)

// WithPhoneValidator sets the destination validator. Defaults to +91 numbers.
func WithPhoneValidator(v *util.PhoneValidator) Option {
	return func(a *Adapter) {
		if v != nil {
			a.phones = v
		}
	}
}

// WithRawBodyLimit overrides how much provider text is echoed in failure details.
func WithRawBodyLimit(limit int) Option {
	return func(a *Adapter) {
		if limit > 0 {
			a.maxRawChars = limit
		}
	}
}

// Adapter implements common.Transport for WhatsApp.
type Adapter struct {
	logger      zerolog.Logger
	provider    waprovider.Provider
	phones      *util.PhoneValidator
	maxRawChars int
}

// NewAdapter constructs a WhatsApp adapter.
func NewAdapter(provider waprovider.Provider, logger zerolog.Logger, opts ...Option) (*Adapter, error) {
	if provider == nil {
		return nil, errors.New("whatsapp adapter: provider dependency is required")
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

// CheckCredentials reports missing Twilio credentials.
func (a *Adapter) CheckCredentials() error {
	reporter, ok := a.provider.(waprovider.CredentialReporter)
	if !ok {
		return nil
	}
	if missing := reporter.MissingCredentials(); len(missing) > 0 {
		return common.NewConfigError(models.ChannelWhatsApp, "Twilio credentials not configured", missing...)
	}
	return nil
}

// Send validates the destination and submits the message.
func (a *Adapter) Send(ctx context.Context, req *models.DispatchRequest) common.Result {
	if req == nil {
		return common.FailedWith(models.FailureInvalidRequest, "whatsapp adapter: request is nil")
	}

	if !a.phones.Valid(req.Destination) {
		err := common.WrapValidation(a.phones.Check(req.Destination))
		return common.Failed(fmt.Sprintf("Invalid WhatsApp number: %s", req.Destination), err)
	}

	if err := a.CheckCredentials(); err != nil {
		return common.Failed(common.DetailOf(err), err)
	}

	raw, err := a.provider.Send(ctx, &waprovider.Payload{
		To:   []string{req.Destination},
		Body: req.Content,
	})
	if err != nil {
		detail := err.Error()
		if raw != nil && raw.Message != "" {
			detail = raw.Message
		}
		a.logger.Warn().
			Str("channel", models.ChannelWhatsApp.String()).
			Str("destination", util.MaskDestination(req.Destination)).
			Err(err).
			Msg("whatsapp adapter send failed")
		return common.Failed(common.TruncateRaw(detail, a.maxRawChars), common.WrapTransport(err))
	}

	sid := ""
	if raw != nil {
		sid = raw.ID
	}
	a.logger.Info().
		Str("channel", models.ChannelWhatsApp.String()).
		Str("destination", util.MaskDestination(req.Destination)).
		Str("provider_id", sid).
		Msg("whatsapp sent")
	return common.Succeeded("WhatsApp sent: " + sid)
}
