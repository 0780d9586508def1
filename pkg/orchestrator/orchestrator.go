// Package orchestrator answers each user turn remote-first, falling back to the
// local dialogue machine whenever the remote service fails.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/posterman/orderbot/internal/logging"
	"github.com/posterman/orderbot/pkg/dialogue"
	"github.com/posterman/orderbot/pkg/domain"
	"github.com/posterman/orderbot/pkg/ports"
	"github.com/posterman/orderbot/pkg/session"
)

// Orchestrator serializes turns per session and picks the reply source.
type Orchestrator struct {
	machine  *dialogue.Machine
	sessions *session.Manager
	remote   ports.RemoteDialogue
	delay    time.Duration
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithRemote makes every turn try remote first.
func WithRemote(remote ports.RemoteDialogue) Option {
	return func(o *Orchestrator) {
		o.remote = remote
	}
}

// WithReplyDelay waits d before returning each reply, as chat UIs do for typing feedback.
func WithReplyDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.delay = d
	}
}

// WithLifecycleHooks registers the OnTurn hook. Other hooks belong to the machine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithLogger configures a logger for the Orchestrator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an Orchestrator. Without WithRemote every turn is local.
func New(machine *dialogue.Machine, sessions *session.Manager, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		machine:  machine,
		sessions: sessions,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Respond produces the reply for one utterance.
//
// It never fails because of the remote service: network errors, non-2xx answers
// and malformed payloads all fall back to the local machine. The error is
// non-nil only when the session store fails or ctx ends during the reply delay.
func (o *Orchestrator) Respond(ctx context.Context, sessionID, utterance string) (domain.Turn, error) {
	start := o.now()
	var turn domain.Turn

	err := o.sessions.Update(ctx, sessionID, func(ctx context.Context, conv *domain.Conversation) (bool, error) {
		if o.remote != nil {
			reply, err := o.remote.Send(ctx, sessionID, utterance)
			if err == nil {
				turn = domain.Turn{Reply: reply, Source: domain.SourceRemote}
				return false, nil
			}
			o.logger.Warn("Remote dialogue failed, using local engine", "session_id", sessionID, "err", err)
			turn.RemoteErr = err
		}

		turn.Reply = o.machine.Advance(ctx, conv, utterance)
		turn.Source = domain.SourceLocal
		return true, nil
	})
	if err != nil {
		return domain.Turn{}, err
	}

	if o.hooks.OnTurn != nil {
		o.hooks.OnTurn(ctx, &domain.TurnEvent{
			EventBase: domain.EventBase{Timestamp: o.now(), Type: domain.EventTurn, SessionID: sessionID},
			Source:    turn.Source,
			Duration:  o.now().Sub(start),
			RemoteErr: turn.RemoteErr,
		})
	}

	if o.delay > 0 {
		timer := time.NewTimer(o.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return turn, ctx.Err()
		case <-timer.C:
		}
	}
	return turn, nil
}

// Reset returns the session to IDLE without touching its draft.
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) error {
	return o.sessions.Reset(ctx, sessionID)
}

// Conversation returns a copy of the session's stored state.
func (o *Orchestrator) Conversation(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	return o.sessions.LoadOrStart(ctx, sessionID)
}
