/*
Package runner implements the interactive chat loop used by the orderbot CLI.

It bridges an Engine (usually the fallback orchestrator) and a terminal or
pipe. Handlers decide how utterances are read and how turns are shown:

  - TextHandler: human-facing prompt, markdown rendering and quick-reply chips.
  - JSONHandler: JSON-Lines in, JSON-Lines out, for scripting and tests.

# Usage

	r := runner.NewRunner(bot,
		runner.WithSessionID("cli-user"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}

Typing "exit" or "quit" (or closing the input) ends the loop. "/reset"
returns the session to the main menu.
*/
package runner
