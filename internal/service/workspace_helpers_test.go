package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/intake"
	"github.com/alexanderramin/saad/internal/llm"
	"github.com/alexanderramin/saad/internal/repository"
	"github.com/alexanderramin/saad/internal/testutil"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

var testNow = time.Date(2025, 1, 20, 9, 30, 0, 0, time.UTC)

// scriptedClient replays canned model outputs, one per call. Once the
// script runs out the last entry repeats.
type scriptedClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	requests  []llm.GenerateRequest

	// started and release, when set, hold Generate until the test lets go.
	started chan struct{}
	release chan struct{}
}

func (c *scriptedClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	c.mu.Lock()
	c.calls++
	c.requests = append(c.requests, req)
	idx := c.calls - 1
	c.mu.Unlock()

	if c.started != nil {
		c.started <- struct{}{}
	}
	if c.release != nil {
		<-c.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.err != nil {
		return nil, c.err
	}
	if len(c.responses) == 0 {
		return &llm.GenerateResponse{Text: `{}`}, nil
	}
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	return &llm.GenerateResponse{Text: c.responses[idx]}, nil
}

func (c *scriptedClient) Available(context.Context) bool { return true }

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// noticeRecorder collects notices raised from background writes.
type noticeRecorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *noticeRecorder) sink(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *noticeRecorder) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// recordingObserver keeps every use-case event.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}

// faultyProjects, faultyTasks, faultyTimelines and faultyMessages wrap the
// real repositories and fail the selected writes.
type faultyProjects struct {
	repository.ProjectRepo
	createErr, statusErr, detailsErr, deleteErr, insightsErr error
}

func (f *faultyProjects) Create(ctx context.Context, p *domain.Project) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.ProjectRepo.Create(ctx, p)
}

func (f *faultyProjects) UpdateStatus(ctx context.Context, id string, s domain.ProjectStatus) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	return f.ProjectRepo.UpdateStatus(ctx, id, s)
}

func (f *faultyProjects) UpdateDetails(ctx context.Context, id, name, desc string) error {
	if f.detailsErr != nil {
		return f.detailsErr
	}
	return f.ProjectRepo.UpdateDetails(ctx, id, name, desc)
}

func (f *faultyProjects) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.ProjectRepo.Delete(ctx, id)
}

func (f *faultyProjects) ReplaceInsights(ctx context.Context, id string, insights []string) error {
	if f.insightsErr != nil {
		return f.insightsErr
	}
	return f.ProjectRepo.ReplaceInsights(ctx, id, insights)
}

type faultyTasks struct {
	repository.TaskRepo
	upsertErr, updateErr, deleteErr, upsertManyErr error
	// upsertGate, when set, holds Upsert until it is closed.
	upsertGate chan struct{}
}

func (f *faultyTasks) Upsert(ctx context.Context, projectID string, t *domain.Task) error {
	if f.upsertGate != nil {
		<-f.upsertGate
	}
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.TaskRepo.Upsert(ctx, projectID, t)
}

func (f *faultyTasks) Update(ctx context.Context, t *domain.Task) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.TaskRepo.Update(ctx, t)
}

func (f *faultyTasks) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.TaskRepo.Delete(ctx, id)
}

func (f *faultyTasks) UpsertMany(ctx context.Context, projectID string, tasks []domain.Task) error {
	if f.upsertManyErr != nil {
		return f.upsertManyErr
	}
	return f.TaskRepo.UpsertMany(ctx, projectID, tasks)
}

type faultyTimelines struct {
	repository.TimelineRepo
	upsertErr error
}

func (f *faultyTimelines) Upsert(ctx context.Context, projectID string, tl *domain.Timeline) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.TimelineRepo.Upsert(ctx, projectID, tl)
}

type faultyMessages struct {
	repository.MessageRepo
	// failRole fails Create for messages with this role only.
	failRole domain.Role
}

func (f *faultyMessages) Create(ctx context.Context, projectID string, m *domain.ChatMessage) error {
	if f.failRole != "" && m.Role == f.failRole {
		return errStoreDown
	}
	return f.MessageRepo.Create(ctx, projectID, m)
}

// harness wires a Workspace over an in-memory store whose repositories can
// be made to fail.
type harness struct {
	ws        *Workspace
	store     *repository.Store
	real      *repository.Store
	client    *scriptedClient
	notices   *noticeRecorder
	observer  *recordingObserver
	projects  *faultyProjects
	tasks     *faultyTasks
	timelines *faultyTimelines
	messages  *faultyMessages
}

func newHarness(t *testing.T, client *scriptedClient) *harness {
	t.Helper()
	if client == nil {
		client = &scriptedClient{}
	}
	real := repository.NewSQLiteStore(testutil.NewTestDB(t))
	h := &harness{
		real:      real,
		client:    client,
		notices:   &noticeRecorder{},
		observer:  &recordingObserver{},
		projects:  &faultyProjects{ProjectRepo: real.Projects},
		tasks:     &faultyTasks{TaskRepo: real.Tasks},
		timelines: &faultyTimelines{TimelineRepo: real.Timelines},
		messages:  &faultyMessages{MessageRepo: real.Messages},
	}
	h.store = &repository.Store{
		Projects:  h.projects,
		Tasks:     h.tasks,
		Timelines: h.timelines,
		Messages:  h.messages,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.ws = NewWorkspace(h.store, intake.NewService(client, logger),
		WithLogger(logger),
		WithObserver(h.observer),
		WithNoticeSink(h.notices.sink),
		WithClock(func() time.Time { return testNow }),
	)
	require.NoError(t, h.ws.Load(context.Background()))
	return h
}

// reload reads the project back from the real store, bypassing the cache.
func (h *harness) reload(t *testing.T, id string) *domain.Project {
	t.Helper()
	p, err := h.real.Projects.GetWithChildren(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (h *harness) newProject(t *testing.T, name string) *domain.Project {
	t.Helper()
	p, err := h.ws.CreateProject(context.Background(), name, "")
	require.NoError(t, err)
	return p
}

func (h *harness) newTask(t *testing.T, projectID, code string) *domain.Task {
	t.Helper()
	task, err := h.ws.CreateTask(context.Background(), projectID, TaskInput{
		Code: code, Title: "Tarefa " + code, Category: "RN", Squad: domain.SquadBackend,
	})
	require.NoError(t, err)
	return task
}
