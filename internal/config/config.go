package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/outreach-dispatch/internal/util"
)

// Config captures all runtime configuration for the outreach dispatcher.
type Config struct {
	App       AppConfig
	Batch     BatchConfig
	Providers ProviderConfig
	Timeouts  TimeoutConfig
	Kafka     KafkaConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	LogLevel string
}

// BatchConfig controls how a batch is fanned out across workers.
type BatchConfig struct {
	WorkerConcurrency int
	PhoneCountryCode  string
	DefaultSubject    string
}

// Fast2SMSConfig stores the bulk SMS API settings.
type Fast2SMSConfig struct {
	APIKey   string
	BaseURL  string
	SenderID string
	Route    string
	Language string
}

// SMTPConfig stores SMTP credentials for email delivery. From doubles as the
// login user, matching how app-password relays authenticate.
type SMTPConfig struct {
	Host string
	Port int
	From string
	Pass string
}

// TwilioConfig stores Twilio credentials for WhatsApp delivery.
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
	BaseURL     string
}

// ExotelConfig stores the telephony connect API settings.
type ExotelConfig struct {
	SID            string
	Token          string
	ExoPhone       string
	From           string
	Subdomain      string
	StatusCallback string
	TimeLimit      int
	RingTimeout    int
}

// LLMConfig stores settings for the chat-completions content generator.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxRetries  int
}

// ProviderConfig wraps configuration for external providers. The *Provider
// fields select a backend per channel ("mock" or the real provider name).
type ProviderConfig struct {
	SMSProvider      string
	EmailProvider    string
	WhatsAppProvider string
	VoiceProvider    string

	Fast2SMS Fast2SMSConfig
	SMTP     SMTPConfig
	Twilio   TwilioConfig
	Exotel   ExotelConfig
	LLM      LLMConfig
}

// TimeoutConfig contains timeout thresholds for outbound providers.
type TimeoutConfig struct {
	ProviderTimeoutSeconds int
}

// ProviderTimeout returns the per-request timeout as a duration.
func (t TimeoutConfig) ProviderTimeout() time.Duration {
	if t.ProviderTimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(t.ProviderTimeoutSeconds) * time.Second
}

// KafkaConfig configures the optional outcome event sink. An empty broker
// list disables it.
type KafkaConfig struct {
	Brokers      []string
	OutcomeTopic string
}

// Enabled reports whether outcome events should be published.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Load reads environment variables, applies defaults, validates values and
// returns a populated Config instance. Provider credentials are optional here;
// their absence surfaces as a per-channel configuration error at dispatch.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)

	cfg.Batch.WorkerConcurrency = ldr.getInt("WORKER_CONCURRENCY", 4, false)
	cfg.Batch.PhoneCountryCode = ldr.getString("PHONE_COUNTRY_CODE", util.DefaultCountryCode, false)
	cfg.Batch.DefaultSubject = ldr.getString("DEFAULT_EMAIL_SUBJECT", "", false)

	cfg.Providers.SMSProvider = ldr.getString("SMS_PROVIDER", "fast2sms", false)
	cfg.Providers.EmailProvider = ldr.getString("EMAIL_PROVIDER", "smtp", false)
	cfg.Providers.WhatsAppProvider = ldr.getString("WHATSAPP_PROVIDER", "twilio", false)
	cfg.Providers.VoiceProvider = ldr.getString("VOICE_PROVIDER", "exotel", false)

	cfg.Providers.Fast2SMS = Fast2SMSConfig{
		APIKey:   ldr.getString("FAST2SMS_API_KEY", "", false),
		BaseURL:  ldr.getString("FAST2SMS_BASE_URL", "https://www.fast2sms.com/dev/bulkV2", false),
		SenderID: ldr.getString("FAST2SMS_SENDER_ID", "TXTIND", false),
		Route:    ldr.getString("FAST2SMS_ROUTE", "v3", false),
		Language: ldr.getString("FAST2SMS_LANGUAGE", "english", false),
	}

	cfg.Providers.SMTP = SMTPConfig{
		Host: ldr.getString("SMTP_HOST", "smtp.gmail.com", false),
		Port: ldr.getInt("SMTP_PORT", 587, false),
		From: ldr.getString("EMAIL_ADDRESS", "", false),
		Pass: ldr.getString("EMAIL_PASSWORD", "", false),
	}

	cfg.Providers.Twilio = TwilioConfig{
		AccountSID:  ldr.getString("TWILIO_SID", "", false),
		AuthToken:   ldr.getString("TWILIO_TOKEN", "", false),
		PhoneNumber: ldr.getString("TWILIO_WHATSAPP_FROM", "+14155238886", false),
		BaseURL:     ldr.getString("TWILIO_BASE_URL", "https://api.twilio.com/2010-04-01", false),
	}

	cfg.Providers.Exotel = ExotelConfig{
		SID:            ldr.getString("EXOTEL_SID", "", false),
		Token:          ldr.getString("EXOTEL_TOKEN", "", false),
		ExoPhone:       ldr.getString("EXOPHONE", "", false),
		From:           ldr.getString("EXOTEL_FROM", "", false),
		Subdomain:      ldr.getString("EXOTEL_SUBDOMAIN", "twilix.exotel.in", false),
		StatusCallback: ldr.getURL("EXOTEL_STATUS_CALLBACK"),
		TimeLimit:      ldr.getInt("EXOTEL_TIME_LIMIT", 30, false),
		RingTimeout:    ldr.getInt("EXOTEL_RING_TIMEOUT", 10, false),
	}

	cfg.Providers.LLM = LLMConfig{
		APIKey:      ldr.getString("PERPLEXITY_API_KEY", "", false),
		BaseURL:     ldr.getString("PERPLEXITY_BASE_URL", "https://api.perplexity.ai", false),
		Model:       ldr.getString("PERPLEXITY_MODEL", "sonar-pro", false),
		Temperature: ldr.getFloat("PERPLEXITY_TEMPERATURE", 0.7, false),
		MaxRetries:  ldr.getInt("PERPLEXITY_MAX_RETRIES", 0, false),
	}

	cfg.Timeouts.ProviderTimeoutSeconds = ldr.getInt("PROVIDER_TIMEOUT_SECONDS", 20, false)

	cfg.Kafka.Brokers = ldr.getStringSlice("KAFKA_BROKERS", false)
	cfg.Kafka.OutcomeTopic = ldr.getString("KAFKA_OUTCOME_TOPIC", "outreach.outcomes", false)

	if cfg.Batch.WorkerConcurrency < 1 {
		ldr.addError("WORKER_CONCURRENCY must be >= 1")
	}
	if _, err := util.NewPhoneValidator(cfg.Batch.PhoneCountryCode); err != nil {
		ldr.addError(fmt.Sprintf("PHONE_COUNTRY_CODE: %v", err))
	}
	if cfg.Providers.SMTP.Port <= 0 || cfg.Providers.SMTP.Port > 65535 {
		ldr.addError("SMTP_PORT must be between 1 and 65535")
	}

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	raw := l.getString(key, "", required)
	if raw == "" {
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a valid integer", key))
		return def
	}
	return i
}

func (l *envLoader) getFloat(key string, def float64, required bool) float64 {
	raw := l.getString(key, "", required)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a valid number", key))
		return def
	}
	return f
}

// getURL returns an optional HTTP(S) URL; malformed values are a load error.
func (l *envLoader) getURL(key string) string {
	raw := l.getString(key, "", false)
	if raw == "" {
		return ""
	}
	valid, err := util.ValidateHTTPURL(raw)
	if err != nil {
		l.addError(fmt.Sprintf("%s: %v", key, err))
		return ""
	}
	return valid
}

func (l *envLoader) getStringSlice(key string, required bool) []string {
	raw := l.getString(key, "", required)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if required && len(out) == 0 {
		l.addError(fmt.Sprintf("%s must contain at least one entry", key))
	}
	return out
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
