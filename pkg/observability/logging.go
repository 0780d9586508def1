package observability

import (
	"context"
	"log/slog"

	"github.com/posterman/orderbot/pkg/domain"
)

// LoggingHooks writes lifecycle events to logger.
// Transitions are Debug; turns and escalations are Info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("transition",
				"session_id", e.SessionID,
				"from", e.From,
				"to", e.To,
				"intent", e.Intent,
			)
		},
		OnEscalation: func(ctx context.Context, e *domain.EventBase) {
			logger.Info("escalation", "session_id", e.SessionID)
		},
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			attrs := []any{
				"session_id", e.SessionID,
				"source", e.Source,
				"duration", e.Duration,
			}
			if e.RemoteErr != nil {
				attrs = append(attrs, "remote_err", e.RemoteErr)
			}
			logger.Info("turn", attrs...)
		},
	}
}
