package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui"
)

// errNoTerminal is returned when ui runs without a TTY.
var errNoTerminal = errors.New("ui requires an interactive terminal")

// isTerminal reports whether stdout is a TTY.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var uiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for docchat.

Pages: Home, Chat, Documents, Settings and Logs.

Controls:
  Tab       - Switch focus between the sidebar and the page
  ↑/↓       - Choose a page (sidebar) or move within the page
  Enter     - Send / Select
  Esc       - Back / Cancel
  Ctrl+T    - Toggle light and dark theme
  Ctrl+C    - Quit`,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in ui: %v\n%s", r, debug.Stack())
		}
	}()

	s, err := requireServices()
	if err != nil {
		return err
	}
	if !isTerminal() {
		return errNoTerminal
	}

	log := s.Log
	if log == nil {
		log = logrus.NewEntry(logrus.New())
		log.Logger.SetOutput(io.Discard)
	}

	// Document progress would corrupt the screen; send it to the log.
	progress := log.WriterLevel(logrus.DebugLevel)
	defer progress.Close()

	if s.NewDocuments == nil {
		return errNotConfigured
	}
	ports := tui.NewPorts(s.Chat, s.NewDocuments(progress), s.Settings, s.Logs)

	app, err := tui.NewDefaultApp(tui.ConfigFromApp(s.Config, log), ports)
	if err != nil {
		return fmt.Errorf("failed to create ui: %w", err)
	}

	if err := app.Run(cmd.Context()); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}
