package server

import (
	"time"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/metrics"
	"github.com/alexanderramin/saad/internal/service"
)

type projectView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	Tasks       []taskView    `json:"tasks"`
	Timeline    *timelineView `json:"timeline"`
	Insights    []string      `json:"insights"`
	ChatHistory []messageView `json:"chatHistory"`
}

type taskView struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Column      string     `json:"column"`
	Squad       string     `json:"squad"`
	DevDoneAt   *time.Time `json:"devDoneAt"`
	ProdDoneAt  *time.Time `json:"prodDoneAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

type timelineView struct {
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	TotalWeeks      int    `json:"totalWeeks"`
	CurrentWeek     int    `json:"currentWeek"`
	ProgressMessage string `json:"progressMessage"`
}

type messageView struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type squadView struct {
	Squad    string `json:"squad"`
	Done     int    `json:"done"`
	Total    int    `json:"total"`
	Progress int    `json:"progress"`
}

type metricsView struct {
	TotalTasks       int         `json:"totalTasks"`
	DeliveredTasks   int         `json:"deliveredTasks"`
	GlobalProgress   int         `json:"globalProgress"`
	DevProgress      int         `json:"devProgress"`
	ProdProgress     int         `json:"prodProgress"`
	ExpectedProgress int         `json:"expectedProgress"`
	Drift            int         `json:"drift"`
	Risk             string      `json:"risk"`
	Trend            string      `json:"trend"`
	HealthScore      int         `json:"healthScore"`
	HasTimeline      bool        `json:"hasTimeline"`
	Squads           []squadView `json:"squads"`
}

type turnView struct {
	UserMessage messageView   `json:"userMessage"`
	Reply       *messageView  `json:"reply"`
	Tasks       []taskView    `json:"tasks"`
	Timeline    *timelineView `json:"timeline"`
	Insights    []string      `json:"insights"`
	Failed      bool          `json:"failed"`
	Skipped     int           `json:"skipped"`
	Notices     []string      `json:"notices"`
}

func toProjectView(p *domain.Project) projectView {
	v := projectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		Tasks:       toTaskViews(p.Tasks),
		Timeline:    toTimelineView(p.Timeline),
		Insights:    nonNil(p.Insights),
		ChatHistory: make([]messageView, len(p.ChatHistory)),
	}
	for i, m := range p.ChatHistory {
		v.ChatHistory[i] = toMessageView(m)
	}
	return v
}

func toTaskViews(tasks []domain.Task) []taskView {
	out := make([]taskView, len(tasks))
	for i := range tasks {
		out[i] = toTaskView(&tasks[i])
	}
	return out
}

func toTaskView(t *domain.Task) taskView {
	return taskView{
		ID:          t.ID,
		Code:        t.Code,
		Title:       t.Title,
		Category:    t.Category,
		Description: t.Description,
		Column:      string(t.Column),
		Squad:       string(t.EffectiveSquad()),
		DevDoneAt:   t.DevDoneAt,
		ProdDoneAt:  t.ProdDoneAt,
		CompletedAt: t.CompletedAt(),
	}
}

func toTimelineView(tl *domain.Timeline) *timelineView {
	if tl == nil {
		return nil
	}
	return &timelineView{
		StartDate:       tl.StartDate,
		EndDate:         tl.EndDate,
		TotalWeeks:      tl.TotalWeeks,
		CurrentWeek:     tl.CurrentWeek,
		ProgressMessage: tl.ProgressMessage,
	}
}

func toMessageView(m domain.ChatMessage) messageView {
	return messageView{ID: m.ID, Role: string(m.Role), Content: m.Content, Timestamp: m.Timestamp}
}

func toMetricsView(s metrics.Snapshot) metricsView {
	v := metricsView{
		TotalTasks:       s.TotalTasks,
		DeliveredTasks:   s.DeliveredTasks,
		GlobalProgress:   s.GlobalProgress,
		DevProgress:      s.DevProgress,
		ProdProgress:     s.ProdProgress,
		ExpectedProgress: s.ExpectedProgress,
		Drift:            s.Drift,
		Risk:             string(s.Risk),
		Trend:            string(s.Trend),
		HealthScore:      s.HealthScore,
		HasTimeline:      s.HasTimeline,
		Squads:           make([]squadView, len(s.Squads)),
	}
	for i, sq := range s.Squads {
		v.Squads[i] = squadView{Squad: string(sq.Squad), Done: sq.Done, Total: sq.Total, Progress: sq.Progress}
	}
	return v
}

func toTurnView(t *service.Turn) turnView {
	v := turnView{
		UserMessage: toMessageView(t.UserMessage),
		Tasks:       toTaskViews(t.Tasks),
		Timeline:    toTimelineView(t.Timeline),
		Insights:    nonNil(t.Insights),
		Failed:      t.Failed,
		Skipped:     t.Skipped,
		Notices:     make([]string, len(t.Notices)),
	}
	if t.Reply != nil {
		reply := toMessageView(*t.Reply)
		v.Reply = &reply
	}
	for i, n := range t.Notices {
		v.Notices[i] = n.String()
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
