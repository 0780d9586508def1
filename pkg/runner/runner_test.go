package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/posterman/orderbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoEngine struct {
	mu      sync.Mutex
	seen    []string
	resets  int
	failOn  string
	session string
}

func (e *echoEngine) Respond(ctx context.Context, sessionID, utterance string) (domain.Turn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if utterance == e.failOn {
		return domain.Turn{}, errors.New("boom")
	}
	e.seen = append(e.seen, utterance)
	e.session = sessionID
	return domain.Turn{
		Reply:  domain.NewReply("echo: "+utterance, "Main Menu"),
		Source: domain.SourceLocal,
	}, nil
}

func (e *echoEngine) Reset(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resets++
	return nil
}

func runWithTimeout(t *testing.T, r *Runner) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- r.Run(t.Context()) }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Runner timed out")
		return nil
	}
}

func TestRunner_Run_BasicFlow(t *testing.T) {
	engine := &echoEngine{}
	out := &bytes.Buffer{}
	r := NewRunner(engine,
		WithSessionID("s1"),
		WithInputHandler(NewTextHandler(strings.NewReader("hi\n\n  track  \nexit\nnever\n"), out)),
	)

	require.NoError(t, runWithTimeout(t, r))

	assert.Equal(t, []string{"hi", "track"}, engine.seen)
	assert.Equal(t, "s1", engine.session)
	assert.Contains(t, out.String(), "echo: hi")
	assert.Contains(t, out.String(), "[Main Menu]")
}

func TestRunner_Run_EOFEndsCleanly(t *testing.T) {
	engine := &echoEngine{}
	r := NewRunner(engine, WithInputHandler(NewTextHandler(strings.NewReader("hello"), io.Discard)))

	require.NoError(t, runWithTimeout(t, r))
	assert.Equal(t, []string{"hello"}, engine.seen)
	assert.Equal(t, DefaultSessionID, engine.session)
}

func TestRunner_Run_ResetCommand(t *testing.T) {
	engine := &echoEngine{}
	out := &bytes.Buffer{}
	r := NewRunner(engine, WithInputHandler(NewTextHandler(strings.NewReader("/reset\n"), out)))

	require.NoError(t, runWithTimeout(t, r))
	assert.Equal(t, 1, engine.resets)
	assert.Empty(t, engine.seen)
	assert.Contains(t, out.String(), "Session reset")
}

func TestRunner_Run_Greeting(t *testing.T) {
	engine := &echoEngine{}
	r := NewRunner(engine,
		WithGreeting("hi"),
		WithInputHandler(NewTextHandler(strings.NewReader(""), io.Discard)),
	)

	require.NoError(t, runWithTimeout(t, r))
	assert.Equal(t, []string{"hi"}, engine.seen)
}

func TestRunner_Run_EngineError(t *testing.T) {
	engine := &echoEngine{failOn: "explode"}
	r := NewRunner(engine, WithInputHandler(NewTextHandler(strings.NewReader("explode\n"), io.Discard)))

	err := runWithTimeout(t, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "respond error")
}

func TestRunner_Run_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(t.Context())
	r := NewRunner(&echoEngine{}, WithInputHandler(NewTextHandler(pr, io.Discard)))

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Runner did not stop on cancellation")
	}
}

func TestRunner_Run_JSONHandler(t *testing.T) {
	engine := &echoEngine{}
	out := &bytes.Buffer{}
	in := strings.NewReader("\"hi\"\n{\"message\":\"track\"}\nplain words\n")
	r := NewRunner(engine, WithInputHandler(NewJSONHandler(in, out)))

	require.NoError(t, runWithTimeout(t, r))
	assert.Equal(t, []string{"hi", "track", "plain words"}, engine.seen)

	dec := json.NewDecoder(out)
	var first domain.Turn
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "echo: hi", first.Reply.Text)
	assert.Equal(t, domain.SourceLocal, first.Source)
}

func TestRunner_RequiresEngine(t *testing.T) {
	r := NewRunner(nil, WithInputHandler(NewTextHandler(strings.NewReader(""), io.Discard)))
	assert.Error(t, r.Run(t.Context()))
}
