package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/intake"
	"github.com/alexanderramin/saad/internal/repository"
	"github.com/alexanderramin/saad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject_SeedsGreeting(t *testing.T) {
	h := newHarness(t, nil)

	p, err := h.ws.CreateProject(context.Background(), "  Checkout  ", "Fluxo de compra")
	require.NoError(t, err)

	assert.Equal(t, "Checkout", p.Name)
	assert.Equal(t, domain.ProjectActive, p.Status)
	require.Len(t, p.ChatHistory, 1)
	assert.Equal(t, domain.RoleAI, p.ChatHistory[0].Role)
	assert.Equal(t, domain.GreetingFor("Checkout"), p.ChatHistory[0].Content)

	stored := h.reload(t, p.ID)
	assert.Equal(t, "Fluxo de compra", stored.Description)
	require.Len(t, stored.ChatHistory, 1)
	assert.Equal(t, p.ChatHistory[0].ID, stored.ChatHistory[0].ID)
}

func TestCreateProject_BlankNameNeverReachesStore(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.ws.CreateProject(context.Background(), "   ", "x")
	assert.ErrorIs(t, err, domain.ErrEmptyName)

	all, err := h.real.Projects.ListWithChildren(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, h.ws.Projects())
}

func TestCreateProject_StoreFailureLeavesCacheUntouched(t *testing.T) {
	h := newHarness(t, nil)
	h.projects.createErr = errStoreDown

	_, err := h.ws.CreateProject(context.Background(), "Checkout", "")
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, h.ws.Projects())
}

func TestCreateProject_GreetingFailureIsSoft(t *testing.T) {
	h := newHarness(t, nil)
	h.messages.failRole = domain.RoleAI

	p, err := h.ws.CreateProject(context.Background(), "Checkout", "")
	require.NoError(t, err)
	assert.Empty(t, p.ChatHistory)

	notices := h.notices.all()
	require.Len(t, notices, 1)
	assert.Equal(t, p.ID, notices[0].ProjectID)
}

func TestProjects_NewestFirst(t *testing.T) {
	h := newHarness(t, nil)
	first := h.newProject(t, "Primeiro")
	second := h.newProject(t, "Segundo")

	all := h.ws.Projects()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestLoad_RebuildsCacheFromStore(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	h.newTask(t, p.ID, "RN - 001.1")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fresh := NewWorkspace(h.real, intake.NewService(h.client, logger))
	require.NoError(t, fresh.Load(context.Background()))

	got, err := fresh.Project(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checkout", got.Name)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "RN - 001.1", got.Tasks[0].Code)
	assert.Len(t, got.ChatHistory, 1)
}

func TestProject_ReturnsCopy(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	h.newTask(t, p.ID, "RN - 001.1")

	cp, err := h.ws.Project(p.ID)
	require.NoError(t, err)
	cp.Name = "mutated"
	cp.Tasks[0].Column = domain.ColumnDeployProd

	again, err := h.ws.Project(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checkout", again.Name)
	assert.Equal(t, domain.ColumnTodo, again.Tasks[0].Column)
}

func TestDeleteProject_Cascades(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	h.newTask(t, p.ID, "RN - 001.1")

	require.NoError(t, h.ws.DeleteProject(context.Background(), p.ID))

	_, err := h.ws.Project(p.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	_, err = h.real.Projects.GetWithChildren(context.Background(), p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	tasks, err := h.real.Tasks.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDeleteProject_StoreFailureKeepsProject(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	h.projects.deleteErr = errStoreDown

	err := h.ws.DeleteProject(context.Background(), p.ID)
	assert.ErrorIs(t, err, errStoreDown)
	_, err = h.ws.Project(p.ID)
	assert.NoError(t, err)
}

func TestDeleteProject_Unknown(t *testing.T) {
	h := newHarness(t, nil)
	err := h.ws.DeleteProject(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestToggleCompleted(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	p := h.newProject(t, "Checkout")

	status, err := h.ws.ToggleCompleted(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCompleted, status)
	assert.Equal(t, domain.ProjectCompleted, h.reload(t, p.ID).Status)

	status, err = h.ws.ToggleCompleted(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectActive, status)

	require.NoError(t, h.ws.SetProjectStatus(ctx, p.ID, domain.ProjectPaused))
	status, err = h.ws.ToggleCompleted(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCompleted, status)
}

func TestSetProjectStatus_StoreFailureKeepsCache(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	h.projects.statusErr = errStoreDown

	err := h.ws.SetProjectStatus(context.Background(), p.ID, domain.ProjectPaused)
	assert.ErrorIs(t, err, errStoreDown)

	got, _ := h.ws.Project(p.ID)
	assert.Equal(t, domain.ProjectActive, got.Status)
}

func TestSetProjectStatus_RejectsUnknownStatus(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	err := h.ws.SetProjectStatus(context.Background(), p.ID, domain.ProjectStatus("archived"))
	assert.Error(t, err)
}

func TestUpdateProject(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	p := h.newProject(t, "Checkout")

	require.NoError(t, h.ws.UpdateProject(ctx, p.ID, "Checkout v2", "Nova descrição"))
	got, _ := h.ws.Project(p.ID)
	assert.Equal(t, "Checkout v2", got.Name)
	assert.Equal(t, "Nova descrição", got.Description)
	assert.Equal(t, "Checkout v2", h.reload(t, p.ID).Name)

	assert.ErrorIs(t, h.ws.UpdateProject(ctx, p.ID, " ", "x"), domain.ErrEmptyName)

	h.projects.detailsErr = errStoreDown
	assert.ErrorIs(t, h.ws.UpdateProject(ctx, p.ID, "Outro", ""), errStoreDown)
	got, _ = h.ws.Project(p.ID)
	assert.Equal(t, "Checkout v2", got.Name)
}

func TestCreateTask_StartsInTodo(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")

	task, err := h.ws.CreateTask(context.Background(), p.ID, TaskInput{
		Code: "RN - 001.1", Title: "Tipo de Cadastro", Category: "RN - 001", Description: "texto",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ColumnTodo, task.Column)
	assert.Nil(t, task.CompletedAt())

	stored := h.reload(t, p.ID)
	require.Len(t, stored.Tasks, 1)
	assert.Equal(t, task.ID, stored.Tasks[0].ID)
	assert.Equal(t, domain.Squad(""), stored.Tasks[0].Squad)
}

func TestCreateTask_RequiresCodeTitleCategory(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")

	_, err := h.ws.CreateTask(context.Background(), p.ID, TaskInput{Title: "Sem código", Category: "RN"})
	assert.Error(t, err)

	got, _ := h.ws.Project(p.ID)
	assert.Empty(t, got.Tasks)
}

func TestCreateTask_StoreFailureLeavesCacheUntouched(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	h.tasks.upsertErr = errStoreDown

	_, err := h.ws.CreateTask(context.Background(), p.ID, TaskInput{Code: "RN - 1", Title: "x", Category: "RN"})
	assert.ErrorIs(t, err, errStoreDown)
	got, _ := h.ws.Project(p.ID)
	assert.Empty(t, got.Tasks)
}

func TestUpdateTask_PatchesFields(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	task := h.newTask(t, p.ID, "RN - 001.1")

	title := "Novo título"
	squad := domain.SquadUXUI
	updated, err := h.ws.UpdateTask(context.Background(), p.ID, task.ID, TaskPatch{Title: &title, Squad: &squad})
	require.NoError(t, err)
	assert.Equal(t, "Novo título", updated.Title)
	assert.Equal(t, "RN - 001.1", updated.Code)
	assert.Equal(t, domain.SquadUXUI, updated.Squad)

	stored := h.reload(t, p.ID)
	assert.Equal(t, "Novo título", stored.Tasks[0].Title)
}

func TestUpdateTask_StoreFailureKeepsCache(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	task := h.newTask(t, p.ID, "RN - 001.1")
	h.tasks.updateErr = errStoreDown

	title := "Novo"
	_, err := h.ws.UpdateTask(context.Background(), p.ID, task.ID, TaskPatch{Title: &title})
	assert.ErrorIs(t, err, errStoreDown)

	got, _ := h.ws.Project(p.ID)
	assert.Equal(t, task.Title, got.Tasks[0].Title)
}

func TestUpdateTask_RejectsBlankRequiredField(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	task := h.newTask(t, p.ID, "RN - 001.1")

	blank := " "
	_, err := h.ws.UpdateTask(context.Background(), p.ID, task.ID, TaskPatch{Code: &blank})
	assert.Error(t, err)
}

func TestDeleteTask(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	p := h.newProject(t, "Checkout")
	keep := h.newTask(t, p.ID, "RN - 001.1")
	drop := h.newTask(t, p.ID, "RN - 001.2")

	h.tasks.deleteErr = errStoreDown
	assert.ErrorIs(t, h.ws.DeleteTask(ctx, p.ID, drop.ID), errStoreDown)
	got, _ := h.ws.Project(p.ID)
	assert.Len(t, got.Tasks, 2)

	h.tasks.deleteErr = nil
	require.NoError(t, h.ws.DeleteTask(ctx, p.ID, drop.ID))
	got, _ = h.ws.Project(p.ID)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, keep.ID, got.Tasks[0].ID)
	assert.Len(t, h.reload(t, p.ID).Tasks, 1)

	assert.ErrorIs(t, h.ws.DeleteTask(ctx, p.ID, drop.ID), ErrTaskNotFound)
}

func TestMoveTask_OptimisticThenPersisted(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	task := h.newTask(t, p.ID, "RN - 001.1")

	moved, err := h.ws.MoveTask(context.Background(), p.ID, task.ID, domain.ColumnDeployDev)
	require.NoError(t, err)
	assert.Equal(t, domain.ColumnDeployDev, moved.Column)
	require.NotNil(t, moved.DevDoneAt)
	assert.True(t, moved.DevDoneAt.Equal(testNow))

	h.ws.Settle()
	stored := h.reload(t, p.ID)
	assert.Equal(t, domain.ColumnDeployDev, stored.Tasks[0].Column)
	require.NotNil(t, stored.Tasks[0].DevDoneAt)
	assert.True(t, stored.Tasks[0].DevDoneAt.Equal(testNow))
	assert.Empty(t, h.notices.all())
}

func TestMoveTask_FailureIsNotRolledBack(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	task := h.newTask(t, p.ID, "RN - 001.1")
	h.tasks.upsertErr = errStoreDown

	_, err := h.ws.MoveTask(context.Background(), p.ID, task.ID, domain.ColumnDoing)
	require.NoError(t, err)
	h.ws.Settle()

	got, _ := h.ws.Project(p.ID)
	assert.Equal(t, domain.ColumnDoing, got.Tasks[0].Column, "cache keeps the optimistic move")
	assert.Equal(t, domain.ColumnTodo, h.reload(t, p.ID).Tasks[0].Column)

	notices := h.notices.all()
	require.Len(t, notices, 1)
	assert.True(t, errors.Is(notices[0].Err, errStoreDown))
	assert.Contains(t, notices[0].String(), "RN - 001.1")
}

func TestMoveTask_CompletionStampSurvivesMovingBack(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	p := h.newProject(t, "Checkout")
	task := h.newTask(t, p.ID, "RN - 001.1")

	_, err := h.ws.MoveTask(ctx, p.ID, task.ID, domain.ColumnDeployProd)
	require.NoError(t, err)
	back, err := h.ws.MoveTask(ctx, p.ID, task.ID, domain.ColumnTodo)
	require.NoError(t, err)
	h.ws.Settle()

	assert.Equal(t, domain.ColumnTodo, back.Column)
	require.NotNil(t, back.ProdDoneAt)
	assert.NotNil(t, back.CompletedAt())

	stored := h.reload(t, p.ID).Tasks[0]
	assert.Equal(t, domain.ColumnTodo, stored.Column)
	assert.NotNil(t, stored.ProdDoneAt)
}

// gatedMove starts a move whose store write is held until the returned func
// is called.
func gatedMove(t *testing.T, h *harness, projectID, taskID string) (open func()) {
	t.Helper()
	gate := make(chan struct{})
	h.tasks.upsertGate = gate
	_, err := h.ws.MoveTask(context.Background(), projectID, taskID, domain.ColumnDoing)
	require.NoError(t, err)
	return func() { close(gate) }
}

// assertBlocked fails if done fires before the pending move is released.
func assertBlocked(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		t.Fatalf("write ran ahead of the pending move: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDeleteTask_WaitsForPendingMove(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	task := h.newTask(t, p.ID, "RN - 001.1")
	open := gatedMove(t, h, p.ID, task.ID)

	done := make(chan error, 1)
	go func() { done <- h.ws.DeleteTask(context.Background(), p.ID, task.ID) }()
	assertBlocked(t, done)

	open()
	require.NoError(t, <-done)
	h.ws.Settle()

	got, _ := h.ws.Project(p.ID)
	assert.Empty(t, got.Tasks)
	assert.Empty(t, h.reload(t, p.ID).Tasks, "a late move must not bring the task back")
	assert.Empty(t, h.notices.all())
}

func TestUpdateTask_WaitsForPendingMove(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	task := h.newTask(t, p.ID, "RN - 001.1")
	open := gatedMove(t, h, p.ID, task.ID)

	title := "Novo titulo"
	done := make(chan error, 1)
	go func() {
		_, err := h.ws.UpdateTask(context.Background(), p.ID, task.ID, TaskPatch{Title: &title})
		done <- err
	}()
	assertBlocked(t, done)

	open()
	require.NoError(t, <-done)
	h.ws.Settle()

	stored := h.reload(t, p.ID).Tasks
	require.Len(t, stored, 1)
	assert.Equal(t, "Novo titulo", stored[0].Title)
	assert.Equal(t, domain.ColumnDoing, stored[0].Column)
}

func TestDeleteProject_WaitsForPendingMove(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	task := h.newTask(t, p.ID, "RN - 001.1")
	open := gatedMove(t, h, p.ID, task.ID)

	done := make(chan error, 1)
	go func() { done <- h.ws.DeleteProject(context.Background(), p.ID) }()
	assertBlocked(t, done)

	open()
	require.NoError(t, <-done)
	h.ws.Settle()

	tasks, err := h.real.Tasks.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Empty(t, h.notices.all())
}

func TestDeleteTask_PendingMoveHonoursContext(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	task := h.newTask(t, p.ID, "RN - 001.1")
	open := gatedMove(t, h, p.ID, task.ID)
	defer func() {
		open()
		h.ws.Settle()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := h.ws.DeleteTask(ctx, p.ID, task.ID)
	assert.ErrorIs(t, err, context.Canceled)

	got, _ := h.ws.Project(p.ID)
	assert.Len(t, got.Tasks, 1)
}

func TestMoveTask_InvalidTargets(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	p := h.newProject(t, "Checkout")
	task := h.newTask(t, p.ID, "RN - 001.1")

	_, err := h.ws.MoveTask(ctx, p.ID, task.ID, domain.Column("Done"))
	assert.Error(t, err)
	_, err = h.ws.MoveTask(ctx, p.ID, "missing", domain.ColumnDoing)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = h.ws.MoveTask(ctx, "missing", task.ID, domain.ColumnDoing)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestMetrics_ComputedFromCache(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	p := h.newProject(t, "Checkout")
	for i := 0; i < 4; i++ {
		task := h.newTask(t, p.ID, "RN - 00"+string(rune('1'+i)))
		if i < 2 {
			_, err := h.ws.MoveTask(ctx, p.ID, task.ID, domain.ColumnTesting)
			require.NoError(t, err)
		}
	}
	h.ws.Settle()

	snap, err := h.ws.Metrics(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, snap.GlobalProgress)
	assert.Equal(t, 0, snap.DevProgress)
	assert.False(t, snap.HasTimeline)

	require.NoError(t, h.ws.Load(ctx))
	again, err := h.ws.Metrics(p.ID)
	require.NoError(t, err)
	assert.Equal(t, snap, again)

	_, err = h.ws.Metrics("missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestResolveProject(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	for _, id := range []string{"abc-111", "abc-222", "def-333"} {
		p := testutil.NewTestProject("P " + id)
		p.ID = id
		require.NoError(t, h.real.Projects.Create(ctx, p))
	}
	require.NoError(t, h.ws.Load(ctx))

	id, err := h.ws.ResolveProject("def")
	require.NoError(t, err)
	assert.Equal(t, "def-333", id)

	id, err = h.ws.ResolveProject("abc-222")
	require.NoError(t, err)
	assert.Equal(t, "abc-222", id)

	_, err = h.ws.ResolveProject("abc")
	assert.ErrorIs(t, err, ErrAmbiguousID)
	_, err = h.ws.ResolveProject("zzz")
	assert.ErrorIs(t, err, ErrProjectNotFound)
	_, err = h.ws.ResolveProject("")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestResolveTask_ByPrefixOrCode(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	a := h.newTask(t, p.ID, "RN - 001.1")
	h.newTask(t, p.ID, "RN - 002.1")
	h.newTask(t, p.ID, "RN - 002.1")

	id, err := h.ws.ResolveTask(p.ID, a.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	id, err = h.ws.ResolveTask(p.ID, "rn - 001.1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = h.ws.ResolveTask(p.ID, "RN - 002.1")
	assert.ErrorIs(t, err, ErrAmbiguousID, "duplicate codes are allowed, so the code is ambiguous")
	_, err = h.ws.ResolveTask(p.ID, "RN - 999")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestObserver_RecordsUseCases(t *testing.T) {
	h := newHarness(t, nil)
	p := h.newProject(t, "Checkout")
	h.newTask(t, p.ID, "RN - 001.1")
	_, _ = h.ws.CreateProject(context.Background(), "", "")

	names := h.observer.names()
	assert.Contains(t, names, "load")
	assert.Contains(t, names, "create-project")
	assert.Contains(t, names, "create-task")

	h.observer.mu.Lock()
	defer h.observer.mu.Unlock()
	last := h.observer.events[len(h.observer.events)-1]
	assert.Equal(t, "create-project", last.Name)
	assert.False(t, last.Success)
	assert.ErrorIs(t, last.Err, domain.ErrEmptyName)
}
