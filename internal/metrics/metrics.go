// Package metrics derives progress, drift and health figures from a
// project's tasks and timeline. Everything here is a pure function; values
// are recomputed on every read and never stored.
package metrics

import (
	"math"

	"github.com/alexanderramin/saad/internal/domain"
)

// Drift thresholds, in percentage points.
const (
	laggingThreshold = -10

	healthCriticalDelta = -20
	healthWarnDelta     = -10
)

// IsDelivered is the done-set used by the progress, squad and drift views:
// Testes, Deploy Dev and Deploy Prod.
func IsDelivered(col domain.Column) bool {
	return col == domain.ColumnTesting || col == domain.ColumnDeployDev || col == domain.ColumnDeployProd
}

// IsShipped is the done-set used by the health score and the dev delivery
// bar: Deploy Dev and Deploy Prod only. It deliberately excludes Testes.
func IsShipped(col domain.Column) bool {
	return col == domain.ColumnDeployDev || col == domain.ColumnDeployProd
}

// SquadMetric is the delivered/total ratio for one squad.
type SquadMetric struct {
	Squad    domain.Squad
	Done     int
	Total    int
	Progress int
}

// Trend describes the direction of the drift.
type Trend string

const (
	TrendAhead      Trend = "ahead"
	TrendOnSchedule Trend = "on_schedule"
	TrendBehind     Trend = "behind"
)

// Snapshot bundles every derived figure for a project.
type Snapshot struct {
	TotalTasks       int
	DeliveredTasks   int
	GlobalProgress   int
	DevProgress      int
	ProdProgress     int
	ExpectedProgress int
	Drift            int
	Risk             domain.RiskLevel
	Trend            Trend
	HealthScore      int
	Squads           []SquadMetric
	HasTimeline      bool
}

// Compute derives the full snapshot.
func Compute(tasks []domain.Task, timeline *domain.Timeline) Snapshot {
	global := GlobalProgress(tasks)
	expected := ExpectedProgress(timeline)
	drift := global - expected
	return Snapshot{
		TotalTasks:       len(tasks),
		DeliveredTasks:   countWhere(tasks, IsDelivered),
		GlobalProgress:   global,
		DevProgress:      percent(countWhere(tasks, IsShipped), len(tasks)),
		ProdProgress:     percent(countWhere(tasks, isProd), len(tasks)),
		ExpectedProgress: expected,
		Drift:            drift,
		Risk:             Classify(drift),
		Trend:            TrendOf(drift),
		HealthScore:      HealthScore(tasks, timeline),
		Squads:           SquadProgress(tasks),
		HasTimeline:      timeline != nil,
	}
}

// GlobalProgress is the share of delivered tasks, 0 when there are none.
func GlobalProgress(tasks []domain.Task) int {
	return percent(countWhere(tasks, IsDelivered), len(tasks))
}

// SquadProgress partitions tasks by squad (unset counts as Geral) and returns
// one entry per squad in display order, including empty squads.
func SquadProgress(tasks []domain.Task) []SquadMetric {
	idx := make(map[domain.Squad]int, len(domain.Squads))
	out := make([]SquadMetric, len(domain.Squads))
	for i, sq := range domain.Squads {
		idx[sq] = i
		out[i].Squad = sq
	}
	for i := range tasks {
		sq := tasks[i].EffectiveSquad()
		j, ok := idx[sq]
		if !ok {
			j = idx[domain.SquadGeneral]
		}
		out[j].Total++
		if IsDelivered(tasks[i].Column) {
			out[j].Done++
		}
	}
	for i := range out {
		out[i].Progress = percent(out[i].Done, out[i].Total)
	}
	return out
}

// ExpectedProgress is the share of the timeline elapsed, capped at 100.
// It trusts CurrentWeek as reported by the last intake turn.
func ExpectedProgress(timeline *domain.Timeline) int {
	if timeline == nil || timeline.TotalWeeks <= 0 {
		return 0
	}
	pct := percent(timeline.CurrentWeek, timeline.TotalWeeks)
	if pct > 100 {
		return 100
	}
	return pct
}

// Drift is actual minus expected progress, in signed percentage points.
func Drift(tasks []domain.Task, timeline *domain.Timeline) int {
	return GlobalProgress(tasks) - ExpectedProgress(timeline)
}

// Classify maps a drift value to a risk level. -10 is at risk, -11 is critical.
func Classify(drift int) domain.RiskLevel {
	switch {
	case drift < laggingThreshold:
		return domain.RiskCritical
	case drift < 0:
		return domain.RiskAtRisk
	default:
		return domain.RiskOnTrack
	}
}

// TrendOf labels the drift direction.
func TrendOf(drift int) Trend {
	switch {
	case drift > 0:
		return TrendAhead
	case drift < 0:
		return TrendBehind
	default:
		return TrendOnSchedule
	}
}

// HealthScore is the coarse 60/80/90/100 heuristic. It compares the shipped
// ratio (Deploy Dev + Deploy Prod) against expected progress and only applies
// when a timeline and at least one task exist.
func HealthScore(tasks []domain.Task, timeline *domain.Timeline) int {
	if timeline == nil || len(tasks) == 0 {
		return 100
	}
	delta := percent(countWhere(tasks, IsShipped), len(tasks)) - ExpectedProgress(timeline)
	switch {
	case delta < healthCriticalDelta:
		return 60
	case delta < healthWarnDelta:
		return 80
	case delta < 0:
		return 90
	default:
		return 100
	}
}

func isProd(col domain.Column) bool {
	return col == domain.ColumnDeployProd
}

func countWhere(tasks []domain.Task, pred func(domain.Column) bool) int {
	n := 0
	for i := range tasks {
		if pred(tasks[i].Column) {
			n++
		}
	}
	return n
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
