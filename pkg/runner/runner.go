package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/posterman/orderbot/internal/logging"
	"github.com/posterman/orderbot/pkg/domain"
)

// ResetCommand clears the session back to the main menu.
const ResetCommand = "/reset"

// Engine is the conversational surface the runner drives.
type Engine interface {
	Respond(ctx context.Context, sessionID, utterance string) (domain.Turn, error)
	Reset(ctx context.Context, sessionID string) error
}

// Runner handles the read-respond loop against an Engine using the provided IOHandler.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	SessionID string
	Greeting  string

	engine Engine
}

// NewRunner creates a Runner bound to engine.
func NewRunner(engine Engine, opts ...Option) *Runner {
	r := &Runner{
		SessionID: DefaultSessionID,
		engine:    engine,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run executes the loop until the input ends, the user exits or ctx is done.
// A closed input or an explicit exit returns nil; cancellation returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil {
		return errors.New("runner: engine is required")
	}

	if r.Greeting != "" {
		if err := r.turn(ctx, r.Greeting); err != nil {
			return err
		}
	}

	for {
		text, err := r.Handler.Input(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(text)) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case ResetCommand:
			if err := r.engine.Reset(ctx, r.SessionID); err != nil {
				return fmt.Errorf("reset error: %w", err)
			}
			r.Logger.Debug("session reset", "session_id", r.SessionID)
			if err := r.Handler.SystemOutput(ctx, "Session reset. Say hi to start again."); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}

		if err := r.turn(ctx, text); err != nil {
			return err
		}
	}
}

func (r *Runner) turn(ctx context.Context, text string) error {
	turn, err := r.engine.Respond(ctx, r.SessionID, text)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("respond error: %w", err)
	}
	r.Logger.Debug("turn", "session_id", r.SessionID, "source", turn.Source)
	if err := r.Handler.Output(ctx, turn); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}
