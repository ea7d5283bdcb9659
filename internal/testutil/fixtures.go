package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/google/uuid"
)

var testCodeCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = d
	}
}

func WithCreatedAt(t time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.CreatedAt = t
	}
}

func WithTimeline(totalWeeks, currentWeek int) ProjectOption {
	return func(p *domain.Project) {
		p.Timeline = &domain.Timeline{
			StartDate:   "2025-01-06",
			EndDate:     "2025-03-03",
			TotalWeeks:  totalWeeks,
			CurrentWeek: currentWeek,
		}
	}
}

func WithTasks(tasks ...*domain.Task) ProjectOption {
	return func(p *domain.Project) {
		for _, t := range tasks {
			p.Tasks = append(p.Tasks, *t)
		}
	}
}

func WithInsights(insights ...string) ProjectOption {
	return func(p *domain.Project) {
		p.Insights = insights
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.ProjectActive,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithColumn(c domain.Column) TaskOption {
	return func(t *domain.Task) {
		t.Column = c
	}
}

func WithSquad(s domain.Squad) TaskOption {
	return func(t *domain.Task) {
		t.Squad = s
	}
}

func WithCode(code string) TaskOption {
	return func(t *domain.Task) {
		t.Code = code
	}
}

func WithCategory(c string) TaskOption {
	return func(t *domain.Task) {
		t.Category = c
	}
}

func WithTaskDescription(d string) TaskOption {
	return func(t *domain.Task) {
		t.Description = d
	}
}

// WithDevDoneAt and WithProdDoneAt set completion stamps directly, bypassing
// MoveTo.
func WithDevDoneAt(ts time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DevDoneAt = &ts
	}
}

func WithProdDoneAt(ts time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ProdDoneAt = &ts
	}
}

func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	n := testCodeCounter.Add(1)
	t := &domain.Task{
		ID:       uuid.New().String(),
		Code:     fmt.Sprintf("RN - %03d.1", n),
		Title:    title,
		Category: fmt.Sprintf("RN - %03d", n),
		Column:   domain.ColumnTodo,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestMessage(role domain.Role, content string, ts time.Time) *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: ts,
	}
}
