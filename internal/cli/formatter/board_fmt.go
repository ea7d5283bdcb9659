package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const minCardWidth = 18

// FormatBoard lays the project's tasks out as five side-by-side columns in
// pipeline order. width is the terminal width; 0 uses a default of 120.
func FormatBoard(p *domain.Project, width int) string {
	if width <= 0 {
		width = 120
	}
	cardWidth := width/len(domain.Columns) - 4
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}

	byColumn := make(map[domain.Column][]domain.Task, len(domain.Columns))
	for _, t := range p.Tasks {
		byColumn[t.Column] = append(byColumn[t.Column], t)
	}

	colStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(0, 1).
		Width(cardWidth)

	panels := make([]string, 0, len(domain.Columns))
	for _, col := range domain.Columns {
		tasks := byColumn[col]
		var b strings.Builder
		b.WriteString(ColumnStyle(col).Render(fmt.Sprintf("%s (%d)", col, len(tasks))))
		if len(tasks) == 0 {
			b.WriteString("\n\n" + Dim("vazio"))
		}
		for i := range tasks {
			b.WriteString("\n\n" + formatCard(&tasks[i], cardWidth))
		}
		panels = append(panels, colStyle.Render(b.String()))
	}

	title := StyleHeader.Render(strings.ToUpper(p.Name)) + "  " + StatusPill(p.Status)
	return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

func formatCard(t *domain.Task, width int) string {
	code := StyleBold.Render(t.Code)
	title := Truncate(t.Title, width)
	meta := SquadBadge(t.EffectiveSquad()) + Dim(" · "+Truncate(t.Category, width/2))
	return code + "\n" + title + "\n" + meta
}

// FormatTaskList renders the tasks of a project as a table in stored order.
func FormatTaskList(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks yet.")
	}
	headers := []string{"ID", "CODE", "TITLE", "CATEGORY", "SQUAD", "COLUMN"}
	rows := make([][]string, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		rows = append(rows, []string{
			TruncID(t.ID),
			Bold(t.Code),
			Truncate(t.Title, 40),
			Dim(Truncate(t.Category, 20)),
			SquadBadge(t.EffectiveSquad()),
			ColumnStyle(t.Column).Render(string(t.Column)),
		})
	}
	return RenderTable(headers, rows)
}
