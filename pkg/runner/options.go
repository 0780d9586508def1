package runner

import (
	"log/slog"
)

// DefaultSessionID is used when the caller does not pick a session.
const DefaultSessionID = "cli_guest"

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID sets the conversation the runner talks on.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.SessionID = id
		}
	}
}

// WithGreeting sends utterance as the first turn before reading any input.
func WithGreeting(utterance string) Option {
	return func(r *Runner) {
		r.Greeting = utterance
	}
}
