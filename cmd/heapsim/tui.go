package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zero-day-ai/heapsim/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	Long: `Launch the full-screen dashboard over a simulation session. With
--script the session is preloaded before the dashboard opens, which is
the usual way to explore a prepared scenario.`,
	RunE: runTui,
}

var tuiScript string

func init() {
	tuiCmd.Flags().StringVar(&tuiScript, "script", "", "Session script to replay before launching")
}

func runTui(cmd *cobra.Command, args []string) error {
	return launchTUI(cmd.Context(), tuiScript)
}

// launchTUI preloads a session from an optional script and runs the
// dashboard until the user quits.
func launchTUI(ctx context.Context, scriptPath string) error {
	s, err := sessionFromScript(ctx, scriptPath)
	if err != nil {
		return err
	}

	program := tea.NewProgram(
		tui.NewModel(s),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err = program.Run()
	return err
}
