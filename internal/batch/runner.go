package batch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	common "github.com/example/outreach-dispatch/internal/adapters/common"
	"github.com/example/outreach-dispatch/internal/content"
	"github.com/example/outreach-dispatch/internal/dispatch"
	"github.com/example/outreach-dispatch/internal/models"
	"github.com/example/outreach-dispatch/internal/util"
)

// EmptyCustomTextDetail is reported for every contact when custom mode is
// selected without any text.
const EmptyCustomTextDetail = "Please enter a message or choose to auto-generate it."

// Config contains the runtime settings the runner relies on.
type Config struct {
	WorkerConcurrency int
	RequestTimeout    time.Duration
	DefaultSubject    string
}

// Dispatcher sends one request and reports whether a channel is usable.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *models.DispatchRequest) common.Result
	CheckCredentials(ch models.Channel) error
}

// Resolver produces the message body for one contact.
type Resolver interface {
	Resolve(ctx context.Context, in content.Input) content.Result
}

// OutcomePublisher receives every outcome once it is final. Publishing errors
// are logged and never change the outcome.
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, event models.OutcomeEvent) error
}

// Dependencies collects the collaborators required by the runner.
type Dependencies struct {
	Dispatcher Dispatcher
	Resolver   Resolver
	Publisher  OutcomePublisher
	Logger     zerolog.Logger
	Now        func() time.Time
	NewID      func() string
}

// Request describes one batch.
type Request struct {
	Contacts    []models.Contact
	Channel     models.Channel
	Mode        content.Mode
	Text        string
	Complexity  models.Complexity
	Subject     string
	Attachments []models.FileBlob
	Need        string
	Audience    string
}

// Runner fans a batch out over a bounded worker pool and collects exactly one
// outcome per contact.
type Runner struct {
	cfg        Config
	dispatcher Dispatcher
	resolver   Resolver
	publisher  OutcomePublisher
	logger     zerolog.Logger
	now        func() time.Time
	newID      func() string
}

// NewRunner validates the configuration and collaborators.
func NewRunner(cfg Config, deps Dependencies) (*Runner, error) {
	if cfg.WorkerConcurrency < 1 {
		return nil, errors.New("batch: worker concurrency must be >= 1")
	}
	if cfg.RequestTimeout < 0 {
		return nil, errors.New("batch: request timeout cannot be negative")
	}
	if deps.Dispatcher == nil {
		return nil, errors.New("batch: dispatcher dependency is required")
	}
	if deps.Resolver == nil {
		return nil, errors.New("batch: resolver dependency is required")
	}

	logger := deps.Logger
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	logger = logger.With().Str("component", "batch_runner").Logger()

	nowFunc := deps.Now
	if nowFunc == nil {
		nowFunc = time.Now
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Runner{
		cfg:        cfg,
		dispatcher: deps.Dispatcher,
		resolver:   deps.Resolver,
		publisher:  deps.Publisher,
		logger:     logger,
		now:        nowFunc,
		newID:      newID,
	}, nil
}

// Run processes every contact in req and returns the partitioned report.
// Batch-wide failures (unknown channel, missing credentials, empty custom
// text) fail each contact without any transport call.
func (r *Runner) Run(ctx context.Context, req Request) models.BatchReport {
	batchID := r.newID()
	logger := r.logger.With().
		Str("batch_id", batchID).
		Str("channel", req.Channel.String()).
		Int("contacts", len(req.Contacts)).
		Logger()

	outcomes := make([]models.DispatchOutcome, len(req.Contacts))
	startedAt := r.now()

	if detail, kind, failed := r.precheck(req); failed {
		logger.Warn().Str("kind", string(kind)).Str("detail", detail).Msg("batch rejected before dispatch")
		for i, contact := range req.Contacts {
			outcomes[i] = failure(contact, kind, detail)
			r.publish(ctx, batchID, req.Channel, outcomes[i])
		}
		return Aggregate(batchID, req.Channel, outcomes)
	}

	sem := semaphore.NewWeighted(int64(r.cfg.WorkerConcurrency))
	var wg sync.WaitGroup

	for i, contact := range req.Contacts {
		if err := sem.Acquire(ctx, 1); err != nil {
			logger.Warn().Err(err).Int("remaining", len(req.Contacts)-i).Msg("batch cancelled before all contacts started")
			for j := i; j < len(req.Contacts); j++ {
				outcomes[j] = failure(req.Contacts[j], models.FailureTransport, err.Error())
				r.publish(ctx, batchID, req.Channel, outcomes[j])
			}
			break
		}

		wg.Add(1)
		go func(idx int, c models.Contact) {
			defer wg.Done()
			defer sem.Release(1)
			outcomes[idx] = r.process(ctx, logger, req, c)
			r.publish(ctx, batchID, req.Channel, outcomes[idx])
		}(i, contact)
	}

	wg.Wait()

	report := Aggregate(batchID, req.Channel, outcomes)
	logger.Info().
		Int("sent", report.SuccessCount()).
		Int("failed", report.FailureCount()).
		Dur("duration", r.now().Sub(startedAt)).
		Msg("batch finished")
	return report
}

func (r *Runner) precheck(req Request) (string, models.FailureKind, bool) {
	if !req.Channel.Valid() {
		return dispatch.UnsupportedDetail(req.Channel), models.FailureUnsupportedChannel, true
	}
	if err := r.dispatcher.CheckCredentials(req.Channel); err != nil {
		return common.DetailOf(err), common.KindOf(err), true
	}
	if req.Mode == content.ModeCustom && strings.TrimSpace(req.Text) == "" {
		return EmptyCustomTextDetail, models.FailureContent, true
	}
	return "", models.FailureNone, false
}

func (r *Runner) process(ctx context.Context, logger zerolog.Logger, req Request, contact models.Contact) models.DispatchOutcome {
	if err := ctx.Err(); err != nil {
		return failure(contact, models.FailureTransport, err.Error())
	}

	body := r.resolver.Resolve(ctx, content.Input{
		Mode:            req.Mode,
		Channel:         req.Channel,
		FixedText:       req.Text,
		RecipientName:   contact.Name,
		Complexity:      req.Complexity,
		Need:            req.Need,
		AudienceContext: req.Audience,
	})
	if body.Failed() {
		logger.Warn().Int("row", contact.Row).Str("reason", body.Reason()).Msg("content generation failed; sending marker text")
	}

	destination := req.Channel.Destination(contact)
	if destination == "" {
		return failure(contact, models.FailureMissingContact, fmt.Sprintf("Contact info missing for mode '%s'.", req.Channel))
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = r.cfg.DefaultSubject
	}

	reqCtx := ctx
	if r.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, r.cfg.RequestTimeout)
		defer cancel()
	}

	start := r.now()
	res := r.dispatcher.Dispatch(reqCtx, &models.DispatchRequest{
		Channel:     req.Channel,
		Content:     body.Body(),
		Destination: destination,
		DisplayName: strings.TrimSpace(contact.Name),
		Subject:     subject,
		Attachments: req.Attachments,
	})

	logger.Debug().
		Int("row", contact.Row).
		Str("destination", util.MaskDestination(destination)).
		Bool("success", res.Success).
		Dur("duration", r.now().Sub(start)).
		Msg("contact dispatched")

	return models.DispatchOutcome{
		Contact: contact,
		Success: res.Success,
		Detail:  res.Detail,
		Kind:    res.Kind,
	}
}

func (r *Runner) publish(ctx context.Context, batchID string, ch models.Channel, outcome models.DispatchOutcome) {
	if r.publisher == nil {
		return
	}
	event := models.OutcomeEvent{
		BatchID:     batchID,
		Row:         outcome.Contact.Row,
		Channel:     ch,
		Name:        outcome.Contact.Name,
		Destination: util.MaskDestination(ch.Destination(outcome.Contact)),
		Success:     outcome.Success,
		Kind:        outcome.Kind,
		Detail:      outcome.Detail,
		Timestamp:   r.now(),
	}
	// The batch context may already be cancelled; the sink still gets the
	// outcome.
	if err := r.publisher.PublishOutcome(context.WithoutCancel(ctx), event); err != nil {
		r.logger.Error().
			Str("batch_id", batchID).
			Int("row", outcome.Contact.Row).
			Err(err).
			Msg("failed to publish outcome event")
	}
}

func failure(contact models.Contact, kind models.FailureKind, detail string) models.DispatchOutcome {
	return models.DispatchOutcome{Contact: contact, Success: false, Detail: detail, Kind: kind}
}
