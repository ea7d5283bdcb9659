package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
)

// CreateProject stores a new active project seeded with the greeting
// message. A blank name is rejected before the store is touched.
func (w *Workspace) CreateProject(ctx context.Context, name, description string) (project *domain.Project, err error) {
	fields := map[string]any{"name": name}
	defer w.observe(ctx, "create-project", "", time.Now(), fields, &err)

	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	now := w.now()
	p := &domain.Project{
		ID:          w.newID(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		Status:      domain.ProjectActive,
	}
	if err := w.store.Projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	greeting := domain.ChatMessage{
		ID:        w.newID(),
		Role:      domain.RoleAI,
		Content:   domain.GreetingFor(p.Name),
		Timestamp: now,
	}
	if err := w.store.Messages.Create(ctx, p.ID, &greeting); err != nil {
		w.notify(Notice{ProjectID: p.ID, Op: "saving greeting", Err: err})
	} else {
		p.ChatHistory = []domain.ChatMessage{greeting}
	}

	w.mu.Lock()
	w.projects = append([]*domain.Project{p}, w.projects...)
	w.mu.Unlock()

	fields["project_id"] = p.ID
	return p.Clone(), nil
}

// DeleteProject removes the project and, through the store's cascade, its
// tasks, timeline and messages.
func (w *Workspace) DeleteProject(ctx context.Context, id string) (err error) {
	defer w.observe(ctx, "delete-project", id, time.Now(), nil, &err)

	if _, err := w.Project(id); err != nil {
		return err
	}
	if err := w.awaitMoves(ctx); err != nil {
		return err
	}
	if err := w.store.Projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for i, p := range w.projects {
		if p.ID == id {
			w.projects = append(w.projects[:i], w.projects[i+1:]...)
			break
		}
	}
	return nil
}

func (w *Workspace) SetProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) (err error) {
	defer w.observe(ctx, "set-project-status", id, time.Now(), map[string]any{"status": string(status)}, &err)

	if !domain.ValidProjectStatuses[status] {
		return fmt.Errorf("invalid project status %q", status)
	}
	if _, err := w.Project(id); err != nil {
		return err
	}
	if err := w.store.Projects.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("updating project status: %w", err)
	}
	w.apply(id, func(p *domain.Project) { p.Status = status })
	return nil
}

// ToggleCompleted flips a project between completed and active. A paused
// project becomes completed.
func (w *Workspace) ToggleCompleted(ctx context.Context, id string) (domain.ProjectStatus, error) {
	p, err := w.Project(id)
	if err != nil {
		return "", err
	}
	next := domain.ProjectCompleted
	if p.Status == domain.ProjectCompleted {
		next = domain.ProjectActive
	}
	if err := w.SetProjectStatus(ctx, id, next); err != nil {
		return p.Status, err
	}
	return next, nil
}

// UpdateProject renames the project and replaces its description.
func (w *Workspace) UpdateProject(ctx context.Context, id, name, description string) (err error) {
	defer w.observe(ctx, "update-project", id, time.Now(), nil, &err)

	if err := domain.ValidateName(name); err != nil {
		return err
	}
	if _, err := w.Project(id); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if err := w.store.Projects.UpdateDetails(ctx, id, name, description); err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	w.apply(id, func(p *domain.Project) {
		p.Name = name
		p.Description = description
	})
	return nil
}
