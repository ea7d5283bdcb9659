package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/service"
)

// FormatChatMessage renders one chat line with its author and timestamp.
func FormatChatMessage(m domain.ChatMessage, now time.Time) string {
	author := StyleBlue.Bold(true).Render("you")
	if m.Role == domain.RoleAI {
		author = StylePurple.Bold(true).Render("saad")
	}
	return fmt.Sprintf("%s %s\n%s", author, Dim(HumanTimestamp(m.Timestamp, now)), m.Content)
}

// FormatChatHistory renders the full conversation in order.
func FormatChatHistory(msgs []domain.ChatMessage, now time.Time) string {
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		parts[i] = FormatChatMessage(m, now)
	}
	return strings.Join(parts, "\n\n")
}

// FormatTurn summarizes what a chat turn changed on the project, followed by
// any writes that failed.
func FormatTurn(turn *service.Turn) string {
	var lines []string
	if turn.Failed {
		lines = append(lines, StyleYellow.Render("⚠ The assistant could not process this message. Nothing was changed."))
	} else {
		if n := len(turn.Tasks); n > 0 {
			lines = append(lines, StyleGreen.Render(fmt.Sprintf("✔ %d task(s) added or updated", n)))
		}
		if turn.Skipped > 0 {
			lines = append(lines, StyleYellow.Render(fmt.Sprintf("⚠ %d task(s) skipped for missing fields", turn.Skipped)))
		}
		if tl := turn.Timeline; tl != nil {
			lines = append(lines, StyleGreen.Render(fmt.Sprintf("✔ timeline set to week %d of %d", tl.CurrentWeek, tl.TotalWeeks)))
		}
		if n := len(turn.Insights); n > 0 {
			lines = append(lines, StyleGreen.Render(fmt.Sprintf("✔ %d insight(s) refreshed", n)))
		}
	}
	for _, n := range turn.Notices {
		lines = append(lines, StyleRed.Render("✖ "+n.String()))
	}
	return strings.Join(lines, "\n")
}
