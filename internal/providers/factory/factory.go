package factory

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/outreach-dispatch/internal/config"
	emailprovider "github.com/example/outreach-dispatch/internal/providers/email"
	smsprovider "github.com/example/outreach-dispatch/internal/providers/sms"
	voiceprovider "github.com/example/outreach-dispatch/internal/providers/voice"
	waprovider "github.com/example/outreach-dispatch/internal/providers/whatsapp"
)

// Backend names accepted by the *_PROVIDER settings.
const (
	BackendMock     = "mock"
	BackendFast2SMS = "fast2sms"
	BackendSMTP     = "smtp"
	BackendTwilio   = "twilio"
	BackendExotel   = "exotel"
)

// Email constructs the configured email provider, supporting SMTP and mock backends.
func Email(cfg config.ProviderConfig, logger zerolog.Logger) (emailprovider.Provider, error) {
	switch backend := normalize(cfg.EmailProvider, BackendSMTP); backend {
	case BackendSMTP:
		provider, err := emailprovider.NewSMTPProvider(cfg.SMTP, logger)
		if err != nil {
			return nil, fmt.Errorf("factory: smtp provider init: %w", err)
		}
		logInit(logger, "email", backend)
		return provider, nil
	case BackendMock:
		logInit(logger, "email", backend)
		return emailprovider.NewMockProvider(logger), nil
	default:
		return nil, fmt.Errorf("factory: unsupported email provider backend %q", cfg.EmailProvider)
	}
}

// SMS constructs the configured SMS provider. Supports Fast2SMS and mock backends.
func SMS(cfg config.ProviderConfig, logger zerolog.Logger) (smsprovider.Provider, error) {
	switch backend := normalize(cfg.SMSProvider, BackendFast2SMS); backend {
	case BackendFast2SMS:
		provider, err := smsprovider.NewFast2SMSProvider(cfg.Fast2SMS, logger)
		if err != nil {
			return nil, fmt.Errorf("factory: fast2sms provider init: %w", err)
		}
		logInit(logger, "sms", backend)
		return provider, nil
	case BackendMock:
		logInit(logger, "sms", backend)
		return smsprovider.NewMockProvider(logger), nil
	default:
		return nil, fmt.Errorf("factory: unsupported sms provider backend %q", cfg.SMSProvider)
	}
}

// WhatsApp constructs the configured WhatsApp provider. Supports Twilio and mock backends.
func WhatsApp(cfg config.ProviderConfig, logger zerolog.Logger) (waprovider.Provider, error) {
	switch backend := normalize(cfg.WhatsAppProvider, BackendTwilio); backend {
	case BackendTwilio:
		provider, err := waprovider.NewTwilioProvider(cfg.Twilio, logger)
		if err != nil {
			return nil, fmt.Errorf("factory: twilio whatsapp provider init: %w", err)
		}
		logInit(logger, "whatsapp", backend)
		return provider, nil
	case BackendMock:
		logInit(logger, "whatsapp", backend)
		return waprovider.NewMockProvider(logger), nil
	default:
		return nil, fmt.Errorf("factory: unsupported whatsapp provider backend %q", cfg.WhatsAppProvider)
	}
}

// Voice constructs the configured call provider. Supports Exotel and mock backends.
func Voice(cfg config.ProviderConfig, logger zerolog.Logger) (voiceprovider.Provider, error) {
	switch backend := normalize(cfg.VoiceProvider, BackendExotel); backend {
	case BackendExotel:
		provider, err := voiceprovider.NewExotelProvider(cfg.Exotel, logger)
		if err != nil {
			return nil, fmt.Errorf("factory: exotel provider init: %w", err)
		}
		logInit(logger, "call", backend)
		return provider, nil
	case BackendMock:
		logInit(logger, "call", backend)
		return voiceprovider.NewMockProvider(logger), nil
	default:
		return nil, fmt.Errorf("factory: unsupported voice provider backend %q", cfg.VoiceProvider)
	}
}

func logInit(logger zerolog.Logger, channel, backend string) {
	logger.Debug().
		Str("channel", channel).
		Str("backend", backend).
		Msg("provider initialised")
}

func normalize(value, def string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return def
	}
	return value
}
