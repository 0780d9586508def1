package runner

import (
	"context"

	"github.com/posterman/orderbot/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents one bot turn.
	Output(ctx context.Context, turn domain.Turn) error

	// Input reads the next utterance. It returns io.EOF when the source is exhausted.
	Input(ctx context.Context) (string, error)

	// SystemOutput shows a runner message that is not part of the dialogue.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
