package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#8ec0b0")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleAqua   = lipgloss.NewStyle().Foreground(ColorAqua)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// RiskColor returns the style for a drift classification.
func RiskColor(risk domain.RiskLevel) lipgloss.Style {
	switch risk {
	case domain.RiskCritical:
		return StyleRed
	case domain.RiskAtRisk:
		return StyleYellow
	case domain.RiskOnTrack:
		return StyleGreen
	default:
		return StyleDim
	}
}

// RiskIndicator returns a colored label such as "● LAGGING".
func RiskIndicator(risk domain.RiskLevel) string {
	switch risk {
	case domain.RiskCritical:
		return StyleRed.Render("● LAGGING")
	case domain.RiskAtRisk:
		return StyleYellow.Render("● AT RISK")
	case domain.RiskOnTrack:
		return StyleGreen.Render("● ON TRACK")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// SquadBadge colors a squad name. Unset renders as Geral.
func SquadBadge(s domain.Squad) string {
	if s == "" {
		s = domain.SquadGeneral
	}
	switch s {
	case domain.SquadUXUI:
		return StylePurple.Render(string(s))
	case domain.SquadBackend:
		return StyleBlue.Render(string(s))
	case domain.SquadFrontend:
		return StyleAqua.Render(string(s))
	default:
		return StyleDim.Render(string(s))
	}
}

// ColumnStyle returns the header style for a board column.
func ColumnStyle(c domain.Column) lipgloss.Style {
	switch c {
	case domain.ColumnDoing:
		return StyleBlue.Bold(true)
	case domain.ColumnTesting:
		return StyleYellow.Bold(true)
	case domain.ColumnDeployDev:
		return StylePurple.Bold(true)
	case domain.ColumnDeployProd:
		return StyleGreen.Bold(true)
	default:
		return StyleFg.Bold(true)
	}
}

// HealthColor colors a health score: 100 green, 90 and 80 yellow, lower red.
func HealthColor(score int) lipgloss.Style {
	switch {
	case score >= 100:
		return StyleGreen
	case score >= 80:
		return StyleYellow
	default:
		return StyleRed
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
