package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition EventType = "transition"
	EventEscalation EventType = "escalation"
	EventTurn       EventType = "turn"
)

// Source identifies which path produced the reply of a turn.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TransitionEvent is emitted once per Advance, including self-transitions.
type TransitionEvent struct {
	EventBase
	From   StateID `json:"from"`
	To     StateID `json:"to"`
	Intent Intent  `json:"intent"`
}

// TurnEvent is emitted once per orchestrated turn.
type TurnEvent struct {
	EventBase
	Source   Source        `json:"source"`
	Duration time.Duration `json:"duration"`
	// RemoteErr is the failure that caused a local fallback, if any.
	RemoteErr error `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnEscalation func(context.Context, *EventBase)
	OnTurn       func(context.Context, *TurnEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: chain(h.OnTransition, other.OnTransition),
		OnEscalation: chain(h.OnEscalation, other.OnEscalation),
		OnTurn:       chain(h.OnTurn, other.OnTurn),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
