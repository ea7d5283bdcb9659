package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/metrics"
)

// FormatAnalysis renders the metrics dashboard: delivery bars, drift, health,
// squad breakdown, timeline and insights.
func FormatAnalysis(p *domain.Project, snap metrics.Snapshot) string {
	var b strings.Builder

	b.WriteString(Header("Delivery") + "\n")
	b.WriteString(fmt.Sprintf("%-10s %s  %s\n", "Global", RenderProgress(snap.GlobalProgress, 20),
		Dim(fmt.Sprintf("%d/%d delivered", snap.DeliveredTasks, snap.TotalTasks))))
	b.WriteString(fmt.Sprintf("%-10s %s\n", "Dev", RenderProgress(snap.DevProgress, 20)))
	b.WriteString(fmt.Sprintf("%-10s %s\n", "Prod", RenderProgress(snap.ProdProgress, 20)))
	b.WriteString("\n")

	b.WriteString(Header("Schedule") + "\n")
	if snap.HasTimeline && p.Timeline != nil {
		tl := p.Timeline
		b.WriteString(fmt.Sprintf("%-10s %s %s\n", "Week",
			StyleFg.Render(fmt.Sprintf("%d of %d", tl.CurrentWeek, tl.TotalWeeks)),
			Dim("(as of last intake)")))
		if tl.StartDate != "" || tl.EndDate != "" {
			b.WriteString(fmt.Sprintf("%-10s %s → %s\n", "Dates", orDash(tl.StartDate), orDash(tl.EndDate)))
		}
		if msg := strings.TrimSpace(tl.ProgressMessage); msg != "" {
			b.WriteString(fmt.Sprintf("%-10s %s\n", "Status", StyleFg.Render(msg)))
		}
	} else {
		b.WriteString(Dim("No timeline yet. Send the deadline in the chat to set one.") + "\n")
	}
	b.WriteString(fmt.Sprintf("%-10s %d%%\n", "Expected", snap.ExpectedProgress))
	b.WriteString(fmt.Sprintf("%-10s %s  %s\n", "Drift", RiskColor(snap.Risk).Render(SignedPct(snap.Drift)), RiskIndicator(snap.Risk)))
	b.WriteString(fmt.Sprintf("%-10s %s\n", "Health", HealthColor(snap.HealthScore).Render(fmt.Sprintf("%d/100", snap.HealthScore))))
	b.WriteString("\n")

	b.WriteString(Header("Squads") + "\n")
	rows := make([][]string, 0, len(snap.Squads))
	for _, sq := range snap.Squads {
		rows = append(rows, []string{
			SquadBadge(sq.Squad),
			RenderProgress(sq.Progress, 12),
			Dim(fmt.Sprintf("%d/%d", sq.Done, sq.Total)),
		})
	}
	b.WriteString(RenderTable([]string{"SQUAD", "PROGRESS", "DONE"}, rows))

	if len(p.Insights) > 0 {
		b.WriteString("\n" + Header("Insights") + "\n")
		for _, in := range p.Insights {
			b.WriteString(StyleYellow.Render("› ") + in + "\n")
		}
	}

	return RenderBox(p.Name, strings.TrimRight(b.String(), "\n"))
}
