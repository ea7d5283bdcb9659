package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/saad/internal/cli/formatter"
	"github.com/alexanderramin/saad/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var errNotConfirmed = errors.New("cancelled")

// saadHuhTheme returns a huh theme built on the formatter's Gruvbox palette.
func saadHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirmForm asks a yes/no question.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(saadHuhTheme()).WithShowHelp(false)
}

// confirmDeletion returns nil when the user may go ahead. --yes skips the
// question; without a terminal the deletion is refused.
func confirmDeletion(app *App, yes bool, what string) error {
	if yes {
		return nil
	}
	if !app.interactive() {
		return errors.New("refusing to delete without --yes in a non-interactive session")
	}
	ok := false
	if err := confirmForm("Delete "+what+"?", &ok).Run(); err != nil {
		return err
	}
	if !ok {
		return errNotConfirmed
	}
	return nil
}

func requiredInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("required")
			}
			return nil
		})
}

// projectForm collects the fields of a new project.
func projectForm(name, description *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			requiredInput("Project Name", "Portal do Cliente", name),
			huh.NewText().Title("Description").Value(description),
		),
	).WithTheme(saadHuhTheme()).WithShowHelp(false)
}

// taskForm collects the fields of a manual task. Fields already set are
// shown prefilled.
func taskForm(code, title, category, description, squad *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(domain.Squads))
	for _, s := range domain.Squads {
		options = append(options, huh.NewOption(string(s), string(s)))
	}
	if *squad == "" {
		*squad = string(domain.SquadGeneral)
	}
	return huh.NewForm(
		huh.NewGroup(
			requiredInput("Code", "RN01", code),
			requiredInput("Title", "Login com e-mail", title),
			requiredInput("Category", "Autenticação", category),
			huh.NewText().Title("Description").Value(description),
			huh.NewSelect[string]().Title("Squad").Options(options...).Value(squad),
		),
	).WithTheme(saadHuhTheme()).WithShowHelp(false)
}
