package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/metrics"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders the project table inside a bordered box.
func FormatProjectList(projects []*domain.Project, now time.Time) string {
	if len(projects) == 0 {
		return RenderBox("Projects", Dim("No projects yet. Create one with: saad project add --name \"...\""))
	}

	headers := []string{"ID", "NAME", "STATUS", "PROGRESS", "TASKS", "CREATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(Truncate(p.Name, 32)),
			StatusPill(p.Status),
			RenderProgress(metrics.GlobalProgress(p.Tasks), 10),
			fmt.Sprintf("%d", len(p.Tasks)),
			Dim(RelativeDateFrom(p.CreatedAt, now)),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectDetail renders the metadata card with a per-column task count.
func FormatProjectDetail(p *domain.Project, snap metrics.Snapshot, now time.Time) string {
	var left strings.Builder
	left.WriteString(StyleBold.Render(p.Name) + "\n")
	if desc := strings.TrimSpace(p.Description); desc != "" {
		left.WriteString(Dim(Truncate(desc, 60)) + "\n")
	}
	left.WriteString("\n")
	left.WriteString(fmt.Sprintf("%s  %s\n", Dim("STATUS "), StatusPill(p.Status)))
	left.WriteString(fmt.Sprintf("%s  %s\n", Dim("ID     "), TruncID(p.ID)))
	left.WriteString(fmt.Sprintf("%s  %s\n", Dim("CREATED"), StyleFg.Render(p.CreatedAt.Format("Jan 2, 2006"))+" "+Dim("("+RelativeDateFrom(p.CreatedAt, now)+")")))
	left.WriteString(fmt.Sprintf("%s  %s\n", Dim("TIMELINE"), timelineSummary(p.Timeline)))
	left.WriteString(fmt.Sprintf("%s  %s", Dim("PROGRESS"), RenderProgress(snap.GlobalProgress, 16)))

	var right strings.Builder
	right.WriteString(StyleHeader.Render("BOARD") + "\n")
	counts := columnCounts(p.Tasks)
	for _, col := range domain.Columns {
		right.WriteString(fmt.Sprintf("%-12s %s\n", string(col), ColumnStyle(col).Render(fmt.Sprintf("%d", counts[col]))))
	}
	right.WriteString(fmt.Sprintf("%-12s %s", "Total", Bold(fmt.Sprintf("%d", len(p.Tasks)))))

	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, left.String(), "    ", right.String()))
}

func timelineSummary(tl *domain.Timeline) string {
	if tl == nil {
		return Dim("not set")
	}
	s := fmt.Sprintf("week %d of %d", tl.CurrentWeek, tl.TotalWeeks)
	if tl.StartDate != "" || tl.EndDate != "" {
		s += fmt.Sprintf(" (%s → %s)", orDash(tl.StartDate), orDash(tl.EndDate))
	}
	return StyleFg.Render(s)
}

func columnCounts(tasks []domain.Task) map[domain.Column]int {
	counts := make(map[domain.Column]int, len(domain.Columns))
	for i := range tasks {
		counts[tasks[i].Column]++
	}
	return counts
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "--"
	}
	return s
}
