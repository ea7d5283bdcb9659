package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/intake"
	"github.com/alexanderramin/saad/internal/metrics"
	"github.com/alexanderramin/saad/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	// ErrAmbiguousID is returned when an id prefix matches more than one entry.
	ErrAmbiguousID = errors.New("id prefix is ambiguous")

	errNoMatch = errors.New("no match")
)

// Notice is a soft, user-visible report of a write that did not reach the
// store. The workspace keeps running after a notice.
type Notice struct {
	ProjectID string
	Op        string
	Err       error
}

func (n Notice) String() string {
	return fmt.Sprintf("%s failed: %v", n.Op, n.Err)
}

// NoticeSink receives notices raised by background work.
type NoticeSink func(Notice)

// Workspace is the session-level view of every project: a cache projected
// from the store. Each mutation either confirms with the store before
// touching the cache or, for task moves only, updates the cache first.
type Workspace struct {
	store    *repository.Store
	analyzer intake.Service
	observer UseCaseObserver
	logger   *slog.Logger
	notices  NoticeSink
	now      func() time.Time
	newID    func() string

	mu       sync.RWMutex
	projects []*domain.Project // newest first

	busy     atomic.Bool
	pending  sync.WaitGroup
	lastMove chan struct{} // closed when the latest background move write ends; guarded by mu
}

// Option configures a Workspace.
type Option func(*Workspace)

func WithObserver(o UseCaseObserver) Option {
	return func(w *Workspace) {
		if o != nil {
			w.observer = o
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithNoticeSink routes background write failures to sink.
func WithNoticeSink(sink NoticeSink) Option {
	return func(w *Workspace) {
		w.notices = sink
	}
}

// WithClock overrides the time source used for stamps and message times.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		w.now = now
	}
}

func NewWorkspace(store *repository.Store, analyzer intake.Service, opts ...Option) *Workspace {
	w := &Workspace{
		store:    store,
		analyzer: analyzer,
		observer: NoopUseCaseObserver{},
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load replaces the cache with the store's current contents.
func (w *Workspace) Load(ctx context.Context) (err error) {
	defer w.observe(ctx, "load", "", time.Now(), nil, &err)

	projects, err := w.store.Projects.ListWithChildren(ctx)
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}
	w.mu.Lock()
	w.projects = projects
	w.mu.Unlock()
	return nil
}

// Projects returns copies of every cached project, newest first.
func (w *Workspace) Projects() []*domain.Project {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*domain.Project, len(w.projects))
	for i, p := range w.projects {
		out[i] = p.Clone()
	}
	return out
}

// Project returns a copy of the cached project.
func (w *Workspace) Project(id string) (*domain.Project, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p := w.find(id)
	if p == nil {
		return nil, fmt.Errorf("project %s: %w", id, ErrProjectNotFound)
	}
	return p.Clone(), nil
}

// Metrics computes the project's snapshot from the cache. Nothing is stored.
func (w *Workspace) Metrics(projectID string) (metrics.Snapshot, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p := w.find(projectID)
	if p == nil {
		return metrics.Snapshot{}, fmt.Errorf("project %s: %w", projectID, ErrProjectNotFound)
	}
	return metrics.Compute(p.Tasks, p.Timeline), nil
}

// Busy reports whether a chat turn is outstanding.
func (w *Workspace) Busy() bool {
	return w.busy.Load()
}

// Settle blocks until every background task-move write has finished.
func (w *Workspace) Settle() {
	w.pending.Wait()
}

// ResolveProject maps a full id or a unique id prefix to a project id.
func (w *Workspace) ResolveProject(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	w.mu.RLock()
	defer w.mu.RUnlock()

	ids := make([]string, len(w.projects))
	for i, p := range w.projects {
		ids[i] = p.ID
	}
	id, err := resolvePrefix(ref, ids)
	if errors.Is(err, errNoMatch) {
		err = ErrProjectNotFound
	}
	if err != nil {
		return "", fmt.Errorf("project %q: %w", ref, err)
	}
	return id, nil
}

// ResolveTask maps a task id, unique id prefix or unique code to a task id.
func (w *Workspace) ResolveTask(projectID, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	w.mu.RLock()
	defer w.mu.RUnlock()

	p := w.find(projectID)
	if p == nil {
		return "", fmt.Errorf("project %s: %w", projectID, ErrProjectNotFound)
	}
	ids := make([]string, len(p.Tasks))
	var byCode []string
	for i, t := range p.Tasks {
		ids[i] = t.ID
		if strings.EqualFold(t.Code, ref) {
			byCode = append(byCode, t.ID)
		}
	}
	id, err := resolvePrefix(ref, ids)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, errNoMatch) && len(byCode) == 1:
		return byCode[0], nil
	case len(byCode) > 1:
		err = ErrAmbiguousID
	case errors.Is(err, errNoMatch):
		err = ErrTaskNotFound
	}
	return "", fmt.Errorf("task %q: %w", ref, err)
}

func resolvePrefix(ref string, ids []string) (string, error) {
	if ref == "" {
		return "", errNoMatch
	}
	var match string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", ErrAmbiguousID
			}
			match = id
		}
	}
	if match == "" {
		return "", errNoMatch
	}
	return match, nil
}

// find returns the cached project. Callers hold mu.
func (w *Workspace) find(id string) *domain.Project {
	for _, p := range w.projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// apply runs fn on the cached project under the write lock. It reports false
// when the project left the cache in the meantime.
func (w *Workspace) apply(id string, fn func(p *domain.Project)) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	p := w.find(id)
	if p == nil {
		return false
	}
	fn(p)
	return true
}

func (w *Workspace) notify(n Notice) {
	w.logger.Warn("workspace notice", "project_id", n.ProjectID, "op", n.Op, "error", n.Err)
	if w.notices != nil {
		w.notices(n)
	}
}
