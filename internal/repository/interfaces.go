package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/saad/internal/domain"
)

// ErrNotFound is returned when a row addressed by ID does not exist.
var ErrNotFound = errors.New("not found")

// ProjectRepo persists projects. The *WithChildren reads return fully
// assembled aggregates: tasks, timeline and chat history included.
type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	ListWithChildren(ctx context.Context) ([]*domain.Project, error)
	GetWithChildren(ctx context.Context, id string) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	UpdateDetails(ctx context.Context, id, name, description string) error
	ReplaceInsights(ctx context.Context, id string, insights []string) error
}

type TaskRepo interface {
	// Upsert inserts the task under projectID or overwrites it by ID. An ID
	// owned by another project fails with ErrNotFound and changes nothing.
	Upsert(ctx context.Context, projectID string, t *domain.Task) error
	// Update overwrites an existing task and fails with ErrNotFound otherwise.
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	// UpsertMany writes every task or none.
	UpsertMany(ctx context.Context, projectID string, tasks []domain.Task) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
}

type TimelineRepo interface {
	// Upsert stores the project's single timeline, replacing any previous one.
	Upsert(ctx context.Context, projectID string, tl *domain.Timeline) error
	GetByProject(ctx context.Context, projectID string) (*domain.Timeline, error)
}

type MessageRepo interface {
	Create(ctx context.Context, projectID string, m *domain.ChatMessage) error
	ListByProject(ctx context.Context, projectID string) ([]domain.ChatMessage, error)
}

// Store bundles the repositories the session layer needs.
type Store struct {
	Projects  ProjectRepo
	Tasks     TaskRepo
	Timelines TimelineRepo
	Messages  MessageRepo
}
