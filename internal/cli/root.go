// Package cli implements the saad command line: project and task management,
// the kanban board, the metrics dashboard, the intake chat and the HTTP API.
package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/saad/internal/service"
	"github.com/spf13/cobra"
)

// App holds what every command needs. Workspace must already be loaded.
type App struct {
	Workspace *service.Workspace
	Logger    *slog.Logger

	// HTTPAddr is the default listen address for serve.
	HTTPAddr string

	// IsInteractive reports whether stdin is a terminal. Nil means no, which
	// disables forms, confirmations and the chat TUI.
	IsInteractive func() bool

	// Now is the clock used for relative dates. Nil means time.Now.
	Now func() time.Time

	// ModelAvailable reports whether the generation model can be reached.
	// serve checks it once at startup; nil skips the check.
	ModelAvailable func(context.Context) bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// NewRootCmd creates the top-level "saad" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "saad",
		Short:         "Project tracking board with an AI intake assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newBoardCmd(app),
		newAnalyzeCmd(app),
		newChatCmd(app),
		newServeCmd(app),
	)

	return root
}
