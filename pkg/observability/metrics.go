package observability

import (
	"context"
	"net/http"

	"github.com/posterman/orderbot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bot's Prometheus collectors on a dedicated registry.
type Metrics struct {
	Registry *prometheus.Registry

	Turns        *prometheus.CounterVec
	Transitions  *prometheus.CounterVec
	Escalations  prometheus.Counter
	Fallbacks    prometheus.Counter
	TurnDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbot_turns_total",
				Help: "Total number of answered turns by reply source",
			},
			[]string{"source"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbot_transitions_total",
				Help: "Dialogue state transitions",
			},
			[]string{"from", "to"},
		),
		Escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbot_escalations_total",
			Help: "Conversations handed off to a human after repeated misses",
		}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderbot_remote_fallbacks_total",
			Help: "Turns answered locally because the remote service failed",
		}),
		TurnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orderbot_turn_duration_seconds",
				Help:    "Time to produce a reply, excluding the reply delay",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
	}
	m.Registry.MustRegister(m.Turns, m.Transitions, m.Escalations, m.Fallbacks, m.TurnDuration)
	return m
}

// Hooks records every lifecycle event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.From.String(), e.To.String()).Inc()
		},
		OnEscalation: func(ctx context.Context, e *domain.EventBase) {
			m.Escalations.Inc()
		},
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			source := string(e.Source)
			m.Turns.WithLabelValues(source).Inc()
			m.TurnDuration.WithLabelValues(source).Observe(e.Duration.Seconds())
			if e.RemoteErr != nil {
				m.Fallbacks.Inc()
			}
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
