package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
	"github.com/rs/zerolog"
)

const DefaultLiveNoticeDelay = 10 * time.Second

type RelayConfig struct {
	// LiveNoticeDelay is how long after a camera is switched on the viewing
	// link is posted. No notice is scheduled without a ViewingURL.
	LiveNoticeDelay time.Duration
	ViewingURL      string
}

// Relay forwards control operations to whichever client the registry
// currently points at.
type Relay struct {
	backend   ports.CameraBackend
	registry  *Registry
	directory *Directory
	scheduler *Scheduler
	notifier  ports.Notifier
	cfg       RelayConfig
	logger    zerolog.Logger
}

func NewRelay(
	backend ports.CameraBackend,
	registry *Registry,
	directory *Directory,
	scheduler *Scheduler,
	notifier ports.Notifier,
	cfg RelayConfig,
	logger zerolog.Logger,
) *Relay {
	if cfg.LiveNoticeDelay <= 0 {
		cfg.LiveNoticeDelay = DefaultLiveNoticeDelay
	}

	return &Relay{
		backend:   backend,
		registry:  registry,
		directory: directory,
		scheduler: scheduler,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger.With().Str("component", "relay").Logger(),
	}
}

func (r *Relay) ListClients(ctx context.Context, prefix string) []string {
	return r.directory.ListStrings(ctx, prefix)
}

func (r *Relay) SelectClient(host string, port int) (domain.ClientIdentity, error) {
	client, err := domain.NewClientIdentity(host, port)
	if err != nil {
		return domain.ClientIdentity{}, err
	}

	r.registry.Select(client)
	r.logger.Info().Stringer("client", client).Msg("session switched")
	return client, nil
}

func (r *Relay) ActiveSession() (domain.ClientIdentity, bool) {
	return r.registry.Current()
}

// Invoke dispatches req against the active client. The error is non-nil only
// for requests rejected before dispatch.
func (r *Relay) Invoke(ctx context.Context, req ControlRequest) (Outcome, error) {
	switch req.Operation {
	case OperationStatus:
		return r.Status(ctx), nil
	case OperationToggle:
		return r.Toggle(ctx), nil
	case OperationSetState:
		return r.SetState(ctx, req.On), nil
	case OperationBlink:
		return r.Blink(ctx, req.Repeat, req.Delay)
	case OperationTerminate:
		return r.Terminate(ctx), nil
	default:
		return Outcome{}, fmt.Errorf("%w: unknown operation %q", domain.ErrInvalidControlParam, req.Operation)
	}
}

func (r *Relay) Status(ctx context.Context) Outcome {
	return r.dispatch(ctx, OperationStatus, func(client domain.ClientIdentity) (Outcome, error) {
		state, err := r.backend.CameraStatus(ctx, client)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Camera: &state}, nil
	})
}

func (r *Relay) Toggle(ctx context.Context) Outcome {
	return r.dispatch(ctx, OperationToggle, func(client domain.ClientIdentity) (Outcome, error) {
		return Outcome{}, r.backend.ToggleCamera(ctx, client)
	})
}

// SetState switches the camera on or off. Switching on also schedules the
// viewing link notice; the outcome is returned without waiting for it.
func (r *Relay) SetState(ctx context.Context, on bool) Outcome {
	outcome := r.dispatch(ctx, OperationSetState, func(client domain.ClientIdentity) (Outcome, error) {
		if err := r.backend.SwitchCamera(ctx, client, on); err != nil {
			return Outcome{}, err
		}
		return Outcome{Camera: &domain.CameraState{On: on}}, nil
	})

	if on && outcome.Succeeded() {
		r.scheduleLiveNotice(outcome.Client)
	}
	return outcome
}

func (r *Relay) Blink(ctx context.Context, repeat, delay int) (Outcome, error) {
	if repeat < 1 {
		return Outcome{}, fmt.Errorf("%w: repeat must be at least 1, got %d", domain.ErrInvalidControlParam, repeat)
	}
	if delay < 0 {
		return Outcome{}, fmt.Errorf("%w: delay must not be negative, got %d", domain.ErrInvalidControlParam, delay)
	}

	return r.dispatch(ctx, OperationBlink, func(client domain.ClientIdentity) (Outcome, error) {
		return Outcome{}, r.backend.BlinkCamera(ctx, client, repeat, delay)
	}), nil
}

// Terminate closes the active client on the backend. Only a confirmed close
// clears the registry.
func (r *Relay) Terminate(ctx context.Context) Outcome {
	outcome := r.dispatch(ctx, OperationTerminate, func(client domain.ClientIdentity) (Outcome, error) {
		return Outcome{}, r.backend.CloseClient(ctx, client)
	})

	if outcome.Succeeded() {
		if r.registry.ClearIf(outcome.Client) {
			r.logger.Info().Stringer("client", outcome.Client).Msg("session cleared")
		}
		r.directory.Invalidate()
	}
	return outcome
}

func (r *Relay) dispatch(ctx context.Context, op Operation, call func(client domain.ClientIdentity) (Outcome, error)) Outcome {
	client, ok := r.registry.Current()
	if !ok {
		r.logger.Debug().Str("operation", string(op)).Msg("no active session")
		return Outcome{Kind: OutcomeNoActiveSession, Operation: op, Err: domain.ErrNoActiveSession}
	}

	outcome, err := call(client)
	outcome.Operation = op
	outcome.Client = client

	var backendErr *domain.BackendError
	switch {
	case err == nil:
		outcome.Kind = OutcomeSuccess
	case errors.As(err, &backendErr):
		outcome.Kind = OutcomeBackendError
		outcome.Status = backendErr.Status
		outcome.Err = err
	default:
		outcome.Kind = OutcomeBackendUnreachable
		outcome.Err = err
	}

	var event *zerolog.Event
	if outcome.Err != nil {
		event = r.logger.Warn().Err(outcome.Err)
	} else {
		event = r.logger.Info()
	}
	event.
		Str("operation", string(op)).
		Stringer("client", client).
		Stringer("outcome", outcome.Kind).
		Msg("relay call finished")

	return outcome
}

func (r *Relay) scheduleLiveNotice(client domain.ClientIdentity) {
	if r.scheduler == nil || r.notifier == nil || r.cfg.ViewingURL == "" {
		return
	}

	notice := domain.Notice{Text: r.cfg.ViewingURL, Colour: domain.ColourBrightGreen}
	r.scheduler.After(r.cfg.LiveNoticeDelay, "live-notice", func(ctx context.Context) {
		if err := r.notifier.PostNotice(ctx, notice); err != nil {
			r.logger.Warn().Err(err).Stringer("client", client).Msg("could not post live notice")
		}
	})
}
