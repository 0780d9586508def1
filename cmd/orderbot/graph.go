package main

import (
	"fmt"

	"github.com/posterman/orderbot/internal/cli"
	"github.com/posterman/orderbot/internal/presentation/graph"
	"github.com/posterman/orderbot/pkg/dialogue"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dialogue flow as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the dialogue states. With --session the session's current state is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var overlay *graph.GraphOverlay

		if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
			app, err := appFor(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			conv, err := app.Bot.Sessions().Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", sessionID, err)
			}
			overlay = &graph.GraphOverlay{CurrentState: conv.State}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(dialogue.Edges(), overlay))
		return nil
	},
}

// appFor loads configuration and wires the app for maintenance commands.
func appFor(cmd *cobra.Command) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return buildApp(cfg)
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the current state of this session")
}
