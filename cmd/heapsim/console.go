package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive simulation console",
	Long: `Start an interactive console for driving a simulation session.

The console supports:
  alloc/free/spray     - build heap state
  bug ...              - simulate memory-safety bugs
  strategy/template    - generate exploitation strategies
  heap/stats/timeline  - inspect the session
  help                 - full command reference
  quit or Ctrl+D       - exit

With --script, commands are read from a file instead of stdin.`,
	RunE: runConsole,
}

var consoleScript string

func init() {
	consoleCmd.Flags().StringVar(&consoleScript, "script", "", "Read commands from a script file instead of stdin")
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := newSession()
	out := cmd.OutOrStdout()

	if consoleScript != "" {
		return replayScript(ctx, s, consoleScript, out)
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		printConsoleWelcome(out, s.ID.String())
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	for {
		if interactive {
			fmt.Fprint(out, consolePrompt())
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				if interactive {
					fmt.Fprintln(out, "\nGoodbye!")
				}
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		quit, err := execLine(ctx, out, s, line)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			continue
		}
		if quit {
			if interactive {
				fmt.Fprintln(out, "Goodbye!")
			}
			return nil
		}
	}
}

func printConsoleWelcome(out io.Writer, sessionID string) {
	title := color.New(color.Bold, color.FgCyan)
	fmt.Fprintln(out, title.Sprint("heapsim console"))
	fmt.Fprintf(out, "session %s\n", sessionID)
	fmt.Fprintln(out, "Type 'help' for commands, 'quit' to exit.")
	fmt.Fprintln(out)
}

func consolePrompt() string {
	return color.CyanString("heapsim> ")
}
