package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	common "github.com/example/outreach-dispatch/internal/adapters/common"
	emailadapter "github.com/example/outreach-dispatch/internal/adapters/email"
	smsadapter "github.com/example/outreach-dispatch/internal/adapters/sms"
	voiceadapter "github.com/example/outreach-dispatch/internal/adapters/voice"
	waadapter "github.com/example/outreach-dispatch/internal/adapters/whatsapp"
	"github.com/example/outreach-dispatch/internal/batch"
	"github.com/example/outreach-dispatch/internal/config"
	"github.com/example/outreach-dispatch/internal/content"
	"github.com/example/outreach-dispatch/internal/dispatch"
	"github.com/example/outreach-dispatch/internal/kafka/producer"
	kafkapublisher "github.com/example/outreach-dispatch/internal/kafka/publisher"
	"github.com/example/outreach-dispatch/internal/logger"
	"github.com/example/outreach-dispatch/internal/models"
	"github.com/example/outreach-dispatch/internal/providers/factory"
	"github.com/example/outreach-dispatch/internal/util"
)

// app holds the wired collaborators shared by every command.
type app struct {
	cfg        *config.Config
	log        zerolog.Logger
	phones     *util.PhoneValidator
	dispatcher *dispatch.Dispatcher
	resolver   *content.Resolver
	publisher  batch.OutcomePublisher
	closers    []func() error
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config load: %w", err)
	}
	baseLogger, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("logger init: %w", err)
	}
	return cfg, baseLogger.With().Str("service", "outreach").Logger(), nil
}

func newApp() (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	phones, err := util.NewPhoneValidator(cfg.Batch.PhoneCountryCode)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, phones: phones}

	transports, err := a.buildTransports()
	if err != nil {
		return nil, err
	}
	a.dispatcher = dispatch.New(transports, log)

	var generator content.Generator
	if strings.TrimSpace(cfg.Providers.LLM.APIKey) != "" {
		gen, err := content.NewLLMGenerator(cfg.Providers.LLM,
			logger.ForComponent(log, "llm"),
			content.WithRequestTimeout(cfg.Timeouts.ProviderTimeout()))
		if err != nil {
			return nil, fmt.Errorf("llm generator init: %w", err)
		}
		generator = gen
	}
	a.resolver = content.NewResolver(content.DefaultTable(), generator)

	if cfg.Kafka.Enabled() {
		kafkaLogger := logger.ForComponent(log, "kafka")
		prod, err := producer.New(cfg.Kafka.Brokers, kafkaLogger)
		if err != nil {
			log.Error().Err(err).Msg("outcome events disabled: kafka producer unavailable")
		} else {
			a.closers = append(a.closers, prod.Close)
			a.publisher = kafkapublisher.NewOutcomePublisher(prod, cfg.Kafka.OutcomeTopic, logger.ForComponent(log, "outcome-publisher"))
		}
	}

	return a, nil
}

func (a *app) buildTransports() (map[models.Channel]common.Transport, error) {
	providers := a.cfg.Providers
	withBackend := func(component, backend string) zerolog.Logger {
		return a.log.With().
			Str("component", component).
			Str("backend", strings.ToLower(strings.TrimSpace(backend))).
			Logger()
	}

	smsProvider, err := factory.SMS(providers, withBackend("sms-provider", providers.SMSProvider))
	if err != nil {
		return nil, err
	}
	sms, err := smsadapter.NewAdapter(smsProvider, logger.ForComponent(a.log, "sms-adapter"), smsadapter.WithPhoneValidator(a.phones))
	if err != nil {
		return nil, err
	}

	emailProvider, err := factory.Email(providers, withBackend("email-provider", providers.EmailProvider))
	if err != nil {
		return nil, err
	}
	email, err := emailadapter.NewAdapter(emailProvider, logger.ForComponent(a.log, "email-adapter"), emailadapter.WithDefaultSubject(a.cfg.Batch.DefaultSubject))
	if err != nil {
		return nil, err
	}

	waProvider, err := factory.WhatsApp(providers, withBackend("whatsapp-provider", providers.WhatsAppProvider))
	if err != nil {
		return nil, err
	}
	wa, err := waadapter.NewAdapter(waProvider, logger.ForComponent(a.log, "whatsapp-adapter"), waadapter.WithPhoneValidator(a.phones))
	if err != nil {
		return nil, err
	}

	voiceProvider, err := factory.Voice(providers, withBackend("voice-provider", providers.VoiceProvider))
	if err != nil {
		return nil, err
	}
	call, err := voiceadapter.NewAdapter(voiceProvider, logger.ForComponent(a.log, "voice-adapter"), voiceadapter.WithPhoneValidator(a.phones))
	if err != nil {
		return nil, err
	}

	return map[models.Channel]common.Transport{
		models.ChannelSMS:      sms,
		models.ChannelEmail:    email,
		models.ChannelWhatsApp: wa,
		models.ChannelCall:     call,
	}, nil
}

func (a *app) runner(workers int) (*batch.Runner, error) {
	if workers <= 0 {
		workers = a.cfg.Batch.WorkerConcurrency
	}
	return batch.NewRunner(batch.Config{
		WorkerConcurrency: workers,
		RequestTimeout:    a.cfg.Timeouts.ProviderTimeout(),
		DefaultSubject:    a.cfg.Batch.DefaultSubject,
	}, batch.Dependencies{
		Dispatcher: a.dispatcher,
		Resolver:   a.resolver,
		Publisher:  a.publisher,
		Logger:     a.log,
	})
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Error().Err(err).Msg("failed to release resource")
		}
	}
}

func readAttachments(paths []string) ([]models.FileBlob, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	blobs := make([]models.FileBlob, 0, len(paths))
	var errs []error
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("attachment %s: %w", p, err))
			continue
		}
		blobs = append(blobs, models.FileBlob{Filename: filepath.Base(p), Data: data})
	}
	return blobs, errors.Join(errs...)
}
