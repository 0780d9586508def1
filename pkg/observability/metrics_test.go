package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/posterman/orderbot/pkg/dialogue"
	"github.com/posterman/orderbot/pkg/domain"
	"github.com/posterman/orderbot/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTurn(ctx, &domain.TurnEvent{Source: domain.SourceRemote, Duration: 10 * time.Millisecond})
	hooks.OnTurn(ctx, &domain.TurnEvent{Source: domain.SourceLocal, RemoteErr: errors.New("down")})
	hooks.OnTransition(ctx, &domain.TransitionEvent{From: domain.StateIdle, To: domain.StateCheckStatus})
	hooks.OnEscalation(ctx, &domain.EventBase{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("remote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("local")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Escalations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("IDLE", "CHECK_STATUS")))
}

func TestMetrics_FromMachine(t *testing.T) {
	m := observability.NewMetrics()
	machine := dialogue.New(dialogue.WithLifecycleHooks(m.Hooks()))
	conv := domain.NewConversation("s1")

	for _, line := range []string{"x", "y", "z"} {
		machine.Advance(context.Background(), conv, line)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Escalations))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Transitions.WithLabelValues("IDLE", "IDLE")))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnEscalation(context.Background(), &domain.EventBase{})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, w.Body.String(), "orderbot_escalations_total 1")
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LoggingHooks(logger).Merge(observability.NewMetrics().Hooks())

	hooks.OnTurn(context.Background(), &domain.TurnEvent{
		EventBase: domain.EventBase{SessionID: "s1"},
		Source:    domain.SourceLocal,
		RemoteErr: errors.New("status 503"),
	})

	out := buf.String()
	assert.Contains(t, out, "msg=turn")
	assert.Contains(t, out, "session_id=s1")
	assert.Contains(t, out, "remote_err")
}
