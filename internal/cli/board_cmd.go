package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/saad/internal/cli/formatter"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "board PROJECT",
		Short: "Show the kanban board of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			if width <= 0 {
				width = terminalWidth()
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBoard(p, width))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Board width in columns (default: terminal width)")

	return cmd
}

func newAnalyzeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "analyze PROJECT",
		Aliases: []string{"metrics"},
		Short:   "Show delivery progress, drift, health and squad breakdown",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			snap, err := app.Workspace.Metrics(p.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAnalysis(p, snap))
			return nil
		},
	}
}

func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return 0
	}
	return w
}
