package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/saad/internal/cli/formatter"
	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage a project's tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskEditCmd(app),
		newTaskMoveCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var code, title, category, description, squad string

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a task to the first column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}

			missing := strings.TrimSpace(code) == "" || strings.TrimSpace(title) == "" || strings.TrimSpace(category) == ""
			if missing && app.interactive() {
				if err := taskForm(&code, &title, &category, &description, &squad).Run(); err != nil {
					return err
				}
			}

			in := service.TaskInput{Code: code, Title: title, Category: category, Description: description}
			if squad != "" {
				sq, err := domain.ParseSquad(squad)
				if err != nil {
					return err
				}
				in.Squad = sq
			}

			t, err := app.Workspace.CreateTask(cmd.Context(), p.ID, in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s [%s]\n", t.Label(), p.Name, t.Column)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Task code, e.g. RN01")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&category, "category", "", "Task category")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&squad, "squad", "", "Squad (UX/UI, Backend, Frontend, Geral)")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}

			tasks := p.Tasks
			if column != "" {
				col, err := domain.ParseColumn(column)
				if err != nil {
					return err
				}
				tasks = nil
				for _, t := range p.Tasks {
					if t.Column == col {
						tasks = append(tasks, t)
					}
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Only show tasks in this column")

	return cmd
}

func newTaskEditCmd(app *App) *cobra.Command {
	var code, title, category, description, squad string

	cmd := &cobra.Command{
		Use:   "edit PROJECT TASK",
		Short: "Change a task's fields (TASK is an ID prefix or code)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			taskID, err := resolveTask(app, p.ID, args[1])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			patch := service.TaskPatch{
				Code:        changed(flags, "code", &code),
				Title:       changed(flags, "title", &title),
				Category:    changed(flags, "category", &category),
				Description: changed(flags, "description", &description),
			}
			if flags.Changed("squad") {
				sq, err := domain.ParseSquad(squad)
				if err != nil {
					return err
				}
				patch.Squad = &sq
			}
			if patch == (service.TaskPatch{}) {
				return fmt.Errorf("nothing to change: pass at least one field flag")
			}

			t, err := app.Workspace.UpdateTask(cmd.Context(), p.ID, taskID, patch)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", t.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Task code")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&category, "category", "", "Task category")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&squad, "squad", "", "Squad (UX/UI, Backend, Frontend, Geral)")

	return cmd
}

// changed returns value when the flag was set on the command line, else nil.
func changed(flags *pflag.FlagSet, name string, value *string) *string {
	if flags.Changed(name) {
		return value
	}
	return nil
}

func newTaskMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move PROJECT TASK COLUMN",
		Short: "Move a task to another column",
		Long: `Move a task to another column. COLUMN is the board label or its key:
todo, doing, testing, deploy_dev, deploy_prod.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			taskID, err := resolveTask(app, p.ID, args[1])
			if err != nil {
				return err
			}
			col, err := domain.ParseColumn(args[2])
			if err != nil {
				return err
			}

			t, err := app.Workspace.MoveTask(cmd.Context(), p.ID, taskID, col)
			if err != nil {
				return err
			}
			// The write runs in the background; the process must not exit first.
			app.Workspace.Settle()

			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", t.Label(), formatter.ColumnStyle(col).Render(string(col)))
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove PROJECT TASK",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			taskID, err := resolveTask(app, p.ID, args[1])
			if err != nil {
				return err
			}
			label := taskID
			if i := p.FindTask(taskID); i >= 0 {
				label = p.Tasks[i].Label()
			}
			if err := confirmDeletion(app, yes, "task "+label); err != nil {
				return err
			}
			if err := app.Workspace.DeleteTask(cmd.Context(), p.ID, taskID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", label)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
