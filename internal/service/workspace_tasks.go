package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
)

// TaskInput carries the fields a user supplies for a manual task.
type TaskInput struct {
	Code        string
	Title       string
	Category    string
	Description string
	Squad       domain.Squad
}

// TaskPatch lists the fields to change on an existing task. Nil fields are
// left alone. The column is changed through MoveTask only.
type TaskPatch struct {
	Code        *string
	Title       *string
	Category    *string
	Description *string
	Squad       *domain.Squad
}

// CreateTask stores a manual task in the first column and appends it to the
// project.
func (w *Workspace) CreateTask(ctx context.Context, projectID string, in TaskInput) (task *domain.Task, err error) {
	defer w.observe(ctx, "create-task", projectID, time.Now(), nil, &err)

	if _, err := w.Project(projectID); err != nil {
		return nil, err
	}
	t := domain.Task{
		ID:          w.newID(),
		Code:        strings.TrimSpace(in.Code),
		Title:       strings.TrimSpace(in.Title),
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
		Column:      domain.ColumnTodo,
		Squad:       in.Squad,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := w.store.Tasks.Upsert(ctx, projectID, &t); err != nil {
		return nil, fmt.Errorf("saving task: %w", err)
	}
	w.apply(projectID, func(p *domain.Project) { p.Tasks = append(p.Tasks, t.Clone()) })
	return &t, nil
}

// UpdateTask applies patch to the task after the store confirms it.
func (w *Workspace) UpdateTask(ctx context.Context, projectID, taskID string, patch TaskPatch) (task *domain.Task, err error) {
	defer w.observe(ctx, "update-task", projectID, time.Now(), map[string]any{"task_id": taskID}, &err)

	t, err := w.task(projectID, taskID)
	if err != nil {
		return nil, err
	}
	if patch.Code != nil {
		t.Code = strings.TrimSpace(*patch.Code)
	}
	if patch.Title != nil {
		t.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Category != nil {
		t.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Squad != nil {
		t.Squad = *patch.Squad
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := w.awaitMoves(ctx); err != nil {
		return nil, err
	}
	if err := w.store.Tasks.Update(ctx, &t); err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	w.replaceTask(projectID, t)
	return &t, nil
}

func (w *Workspace) DeleteTask(ctx context.Context, projectID, taskID string) (err error) {
	defer w.observe(ctx, "delete-task", projectID, time.Now(), map[string]any{"task_id": taskID}, &err)

	if _, err := w.task(projectID, taskID); err != nil {
		return err
	}
	if err := w.awaitMoves(ctx); err != nil {
		return err
	}
	if err := w.store.Tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	w.apply(projectID, func(p *domain.Project) {
		if i := p.FindTask(taskID); i >= 0 {
			p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
		}
	})
	return nil
}

// MoveTask changes the task's column in the cache right away and writes it
// to the store in the background. A failed write is reported through the
// notice sink and is not rolled back. Use Settle to wait for the write.
func (w *Workspace) MoveTask(ctx context.Context, projectID, taskID string, col domain.Column) (*domain.Task, error) {
	if !col.Valid() {
		return nil, fmt.Errorf("invalid column %q", col)
	}

	var (
		moved   domain.Task
		moveErr error
		prev    chan struct{}
		done    = make(chan struct{})
	)
	found := w.apply(projectID, func(p *domain.Project) {
		i := p.FindTask(taskID)
		if i < 0 {
			moveErr = fmt.Errorf("task %s: %w", taskID, ErrTaskNotFound)
			return
		}
		moveErr = p.Tasks[i].MoveTo(col, w.now())
		moved = p.Tasks[i].Clone()
		prev, w.lastMove = w.lastMove, done
	})
	if !found {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrProjectNotFound)
	}
	if moveErr != nil {
		return nil, moveErr
	}

	// Writes are chained so the store sees moves in the order they were made.
	bg := context.WithoutCancel(ctx)
	w.pending.Add(1)
	go func(t domain.Task) {
		defer w.pending.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}
		var err error
		defer w.observe(bg, "move-task", projectID, time.Now(), map[string]any{"task_id": t.ID, "column": string(t.Column)}, &err)

		if err = w.store.Tasks.Upsert(bg, projectID, &t); err != nil {
			w.notify(Notice{ProjectID: projectID, Op: "moving task " + t.Label(), Err: err})
		}
	}(moved.Clone())

	return &moved, nil
}

// awaitMoves blocks until every background move write issued so far has
// reached the store. Edits and deletes call it first so a late move cannot
// bring back a deleted row or overwrite newer fields.
func (w *Workspace) awaitMoves(ctx context.Context) error {
	w.mu.RLock()
	last := w.lastMove
	w.mu.RUnlock()
	if last == nil {
		return nil
	}
	select {
	case <-last:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// task returns a copy of the cached task.
func (w *Workspace) task(projectID, taskID string) (domain.Task, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p := w.find(projectID)
	if p == nil {
		return domain.Task{}, fmt.Errorf("project %s: %w", projectID, ErrProjectNotFound)
	}
	i := p.FindTask(taskID)
	if i < 0 {
		return domain.Task{}, fmt.Errorf("task %s: %w", taskID, ErrTaskNotFound)
	}
	return p.Tasks[i].Clone(), nil
}

func (w *Workspace) replaceTask(projectID string, t domain.Task) {
	w.apply(projectID, func(p *domain.Project) {
		if i := p.FindTask(t.ID); i >= 0 {
			p.Tasks[i] = t.Clone()
		}
	})
}
