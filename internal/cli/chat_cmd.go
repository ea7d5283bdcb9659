package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/saad/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	var showHistory bool

	cmd := &cobra.Command{
		Use:   "chat PROJECT [MESSAGE...]",
		Short: "Talk to the intake assistant about a project",
		Long: `Send rules, deadlines or status updates to the intake assistant.

With a MESSAGE, one turn runs and its outcome is printed. Without one, an
interactive chat opens when stdin is a terminal; otherwise the chat history
is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if message := strings.Join(args[1:], " "); strings.TrimSpace(message) != "" {
				stop := func() {}
				if app.interactive() {
					stop = formatter.StartSpinner(os.Stderr, "Analisando...")
				}
				turn, err := app.Workspace.SendMessage(cmd.Context(), p.ID, message)
				stop()
				if err != nil {
					return err
				}

				if turn.Reply != nil {
					fmt.Fprintln(out, formatter.FormatChatMessage(*turn.Reply, app.now()))
				}
				if summary := formatter.FormatTurn(turn); summary != "" {
					fmt.Fprintln(out, "\n"+summary)
				}
				return nil
			}

			if showHistory || !app.interactive() {
				fmt.Fprintln(out, formatter.FormatChatHistory(p.ChatHistory, app.now()))
				return nil
			}

			model := newChatModel(app.Workspace, p.ID, app.now)
			_, err = tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(out),
			).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&showHistory, "history", false, "Print the chat history and exit")

	return cmd
}
