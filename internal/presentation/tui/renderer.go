package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders reply markdown using glamour.
// Links such as the handoff and checkout URLs stay visible in the output.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
