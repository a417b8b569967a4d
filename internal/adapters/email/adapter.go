package email

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	common "github.com/example/outreach-dispatch/internal/adapters/common"
	"github.com/example/outreach-dispatch/internal/models"
	emailprovider "github.com/example/outreach-dispatch/internal/providers/email"
	"github.com/example/outreach-dispatch/internal/util"
)

// Option customises adapter behaviour.
type Option func(*Adapter)

// WithDefaultSubject sets the subject used when a request carries none.
func WithDefaultSubject(subject string) Option {
	return func(a *Adapter) {
		a.defaultSubject = strings.TrimSpace(subject)
	}
}

// Adapter implements common.Transport for email, translating requests into
// provider payloads with attachments.
type Adapter struct {
	logger         zerolog.Logger
	provider       emailprovider.Provider
	defaultSubject string
}

// NewAdapter constructs an email adapter using the provided dependencies.
func NewAdapter(provider emailprovider.Provider, logger zerolog.Logger, opts ...Option) (*Adapter, error) {
	if provider == nil {
		return nil, errors.New("email adapter: provider dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	a := &Adapter{
		logger:   logger,
		provider: provider,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// CheckCredentials reports missing SMTP login settings.
func (a *Adapter) CheckCredentials() error {
	reporter, ok := a.provider.(emailprovider.CredentialReporter)
	if !ok {
		return nil
	}
	if missing := reporter.MissingCredentials(); len(missing) > 0 {
		return common.NewConfigError(models.ChannelEmail, "Email credentials not configured", missing...)
	}
	return nil
}

// Send validates the address, builds the message and hands it to the provider.
// The failure detail for provider errors is the provider's error text.
func (a *Adapter) Send(ctx context.Context, req *models.DispatchRequest) common.Result {
	if req == nil {
		return common.FailedWith(models.FailureInvalidRequest, "email adapter: request is nil")
	}

	if !util.ValidateEmail(req.Destination) {
		err := common.WrapValidation(util.CheckEmail(req.Destination))
		return common.Failed(fmt.Sprintf("Invalid email address: %s", req.Destination), err)
	}

	if err := a.CheckCredentials(); err != nil {
		return common.Failed(common.DetailOf(err), err)
	}

	subject := req.Subject
	if strings.TrimSpace(subject) == "" {
		subject = a.defaultSubject
	}

	blobs := models.UsableAttachments(req.Attachments)
	attachments := make([]emailprovider.Attachment, 0, len(blobs))
	for _, blob := range blobs {
		attachments = append(attachments, emailprovider.Attachment{
			Filename: blob.Filename,
			Data:     blob.Data,
		})
	}

	_, err := a.provider.Send(ctx, &emailprovider.Payload{
		To:          []string{req.Destination},
		Subject:     subject,
		Body:        req.Content,
		Attachments: attachments,
	})
	if err != nil {
		a.logger.Warn().
			Str("channel", models.ChannelEmail.String()).
			Str("destination", util.MaskDestination(req.Destination)).
			Err(err).
			Msg("email adapter send failed")
		return common.Failed(err.Error(), common.WrapTransport(err))
	}

	a.logger.Info().
		Str("channel", models.ChannelEmail.String()).
		Str("destination", util.MaskDestination(req.Destination)).
		Int("attachments", len(attachments)).
		Msg("email sent")
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = "User"
	}
	return common.Succeeded(fmt.Sprintf("Email sent to %s successfully", name))
}
