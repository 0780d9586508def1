package graph

import (
	"fmt"
	"strings"

	"github.com/posterman/orderbot/pkg/dialogue"
	"github.com/posterman/orderbot/pkg/domain"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	CurrentState domain.StateID
}

// GenerateMermaid produces a Mermaid flowchart of the dialogue states.
// It applies semantic styling:
// - IDLE: ((Circle))
// - CHECK_STATUS: [[Subroutine]] (tracker lookup)
// - ASK_*: [/Parallelogram/] (free-text input)
// - Default: [Rectangle]
// The reset edge shared by every state is drawn once from a RESET node.
func GenerateMermaid(edges []dialogue.Edge, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, state := range domain.States() {
		opener, closer := shape(state)
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(state), opener, state, closer))
	}

	for _, e := range edges {
		label := strings.ReplaceAll(e.Label, "\"", "'")
		arrow := "-->"
		if label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To)))
	}

	sb.WriteString(fmt.Sprintf("    RESET{{\"any state\"}} -. \"%s\" .-> %s\n", dialogue.ResetLabel, sanitizeMermaidID(domain.StateIdle)))

	if overlay != nil && overlay.CurrentState != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentState)))
	}

	return sb.String()
}

func shape(state domain.StateID) (string, string) {
	switch {
	case state == domain.StateIdle:
		return "((", "))"
	case state == domain.StateCheckStatus:
		return "[[", "]]"
	case strings.HasPrefix(string(state), "ASK_"):
		return "[/", "/]"
	}
	return "[", "]"
}

func sanitizeMermaidID(id domain.StateID) string {
	s := strings.ReplaceAll(string(id), ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
