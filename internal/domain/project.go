package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyName is returned when a project is created or renamed with a blank name.
var ErrEmptyName = errors.New("project name is required")

type Project struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	Status      ProjectStatus
	ChatHistory []ChatMessage
	Tasks       []Task
	Timeline    *Timeline
	Insights    []string
}

// Timeline is the schedule extracted by intake. CurrentWeek is whatever the
// last intake turn reported; it is not advanced with wall-clock time.
type Timeline struct {
	StartDate       string
	EndDate         string
	TotalWeeks      int
	CurrentWeek     int
	ProgressMessage string
}

// Validate checks the timeline invariants.
func (t *Timeline) Validate() error {
	if t.TotalWeeks < 1 {
		return fmt.Errorf("timeline total weeks must be at least 1, got %d", t.TotalWeeks)
	}
	if t.CurrentWeek < 0 {
		return fmt.Errorf("timeline current week must not be negative, got %d", t.CurrentWeek)
	}
	return nil
}

type ChatMessage struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// GreetingFor returns the assistant message every new project is seeded with.
func GreetingFor(projectName string) string {
	return fmt.Sprintf("Olá! Vamos começar o planejamento do projeto %q. Me informe as Regras de Negócio e o prazo.", projectName)
}

// ValidateName rejects blank project names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// DisplayID returns the first 8 characters of the ID for display.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// FindTask returns the index of the task with the given ID, or -1.
func (p *Project) FindTask(id string) int {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can read a project without sharing
// slices with the session cache.
func (p *Project) Clone() *Project {
	c := *p
	c.ChatHistory = append([]ChatMessage(nil), p.ChatHistory...)
	c.Tasks = make([]Task, len(p.Tasks))
	for i := range p.Tasks {
		c.Tasks[i] = p.Tasks[i].Clone()
	}
	if p.Timeline != nil {
		tl := *p.Timeline
		c.Timeline = &tl
	}
	c.Insights = append([]string(nil), p.Insights...)
	return &c
}
