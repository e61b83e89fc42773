package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"debatecore/internal/ui"
)

var errNotTerminal = errors.New("the interactive view needs a terminal; use `debatecore ask` instead")

// runTUI opens the interactive view and tears the session down on exit
func runTUI(cmd *cobra.Command, e *env) error {
	if !isTerminal(cmd.OutOrStdout()) {
		return errNotTerminal
	}

	session := ui.NewSession(e.gw, ui.SessionConfig{PollInterval: e.cfg.Poll.Interval}, e.logger)
	defer session.Close()

	if err := session.Start(); err != nil {
		return err
	}

	m := ui.New(session, e.loader(),
		ui.WithLogger(e.logger),
		ui.WithBaseURL(e.cfg.Backend.BaseURL))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		// killed from outside: drop outstanding requests too
		session.Abort()
		return nil
	}
	return err
}
