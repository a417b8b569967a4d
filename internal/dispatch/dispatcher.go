package dispatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	common "github.com/example/outreach-dispatch/internal/adapters/common"
	"github.com/example/outreach-dispatch/internal/models"
)

// DefaultEmailName is used when an email request carries no display name.
const DefaultEmailName = "User"

// Dispatcher routes a request to the transport registered for its channel.
type Dispatcher struct {
	logger zerolog.Logger

	mu         sync.RWMutex
	transports map[models.Channel]common.Transport
}

// New builds a dispatcher from an initial registry. The map is copied.
func New(transports map[models.Channel]common.Transport, logger zerolog.Logger) *Dispatcher {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	d := &Dispatcher{
		logger:     logger.With().Str("component", "dispatcher").Logger(),
		transports: make(map[models.Channel]common.Transport, len(transports)),
	}
	for ch, t := range transports {
		if t != nil {
			d.transports[ch] = t
		}
	}
	return d
}

// Register adds or replaces the transport for a channel.
func (d *Dispatcher) Register(ch models.Channel, t common.Transport) error {
	if !ch.Valid() {
		return fmt.Errorf("dispatch: unsupported channel %q", ch)
	}
	if t == nil {
		return errors.New("dispatch: transport is required")
	}
	d.mu.Lock()
	d.transports[ch] = t
	d.mu.Unlock()
	return nil
}

// Transport returns the transport registered for ch.
func (d *Dispatcher) Transport(ch models.Channel) (common.Transport, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.transports[ch]
	return t, ok
}

// CheckCredentials asks the channel's transport whether it can send. A
// transport without credential reporting is assumed ready.
func (d *Dispatcher) CheckCredentials(ch models.Channel) error {
	t, ok := d.Transport(ch)
	if !ok {
		return fmt.Errorf("dispatch: no transport for %q", ch)
	}
	checker, ok := t.(common.CredentialChecker)
	if !ok {
		return nil
	}
	return checker.CheckCredentials()
}

// UnsupportedDetail renders the failure detail for an unknown channel.
func UnsupportedDetail(ch models.Channel) string {
	return fmt.Sprintf("Unsupported communication mode: %s", ch)
}

// Dispatch sends one request. It never panics on bad input and never returns
// an error; every failure is folded into the result.
func (d *Dispatcher) Dispatch(ctx context.Context, req *models.DispatchRequest) common.Result {
	if req == nil {
		return common.FailedWith(models.FailureInvalidRequest, "dispatch request is required")
	}

	t, ok := d.Transport(req.Channel)
	if !ok {
		d.logger.Warn().Str("channel", req.Channel.String()).Msg("unsupported channel")
		return common.FailedWith(models.FailureUnsupportedChannel, UnsupportedDetail(req.Channel))
	}

	if req.Channel == models.ChannelEmail && strings.TrimSpace(req.DisplayName) == "" {
		cp := *req
		cp.DisplayName = DefaultEmailName
		req = &cp
	}

	return t.Send(ctx, req)
}
