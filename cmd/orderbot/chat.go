package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/posterman/orderbot/internal/presentation/tui"
	"github.com/posterman/orderbot/pkg/runner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the bot in the terminal",
	Long: `Starts an interactive session. Replies are rendered as markdown when stdout
is a terminal. Type "/reset" to return to the main menu and "exit" to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("remote") {
			cfg.Remote.URL, _ = cmd.Flags().GetString("remote")
		}

		app, err := buildApp(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		plain, _ := cmd.Flags().GetBool("plain")
		jsonMode, _ := cmd.Flags().GetBool("json")
		interactive := term.IsTerminal(int(os.Stdout.Fd()))

		var handler runner.IOHandler
		switch {
		case jsonMode:
			handler = runner.NewJSONHandler(os.Stdin, os.Stdout)
		case plain || !interactive:
			handler = runner.NewTextHandler(os.Stdin, os.Stdout)
		default:
			render, err := tui.NewRenderer()
			if err != nil {
				return err
			}
			tui.PrintBanner(os.Stdout)
			handler = runner.NewTextHandler(os.Stdin, os.Stdout, runner.WithTextHandlerRenderer(render))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app.Logger.Debug("chat session", "session_id", sessionID)
		r := runner.NewRunner(app.Bot,
			runner.WithSessionID(sessionID),
			runner.WithInputHandler(handler),
			runner.WithGreeting("hi"),
			runner.WithLogger(app.Logger),
		)
		if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("session", "s", "", "Session ID to resume (default: a new UUID)")
	chatCmd.Flags().String("remote", "", "Remote dialogue service URL (overrides config)")
	chatCmd.Flags().Bool("plain", false, "Disable markdown rendering")
	chatCmd.Flags().Bool("json", false, "Read and write JSON lines")
}
