package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/alexanderramin/saad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewSQLiteStore(testutil.NewTestDB(t))
}

func TestProjectRepo_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("App de Delivery V2", testutil.WithDescription("Rebuild do checkout"))
	require.NoError(t, store.Projects.Create(ctx, proj))

	got, err := store.Projects.GetWithChildren(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, got.ID)
	assert.Equal(t, "App de Delivery V2", got.Name)
	assert.Equal(t, "Rebuild do checkout", got.Description)
	assert.Equal(t, domain.ProjectActive, got.Status)
	assert.WithinDuration(t, proj.CreatedAt, got.CreatedAt, time.Microsecond)
	assert.Empty(t, got.Tasks)
	assert.Nil(t, got.Timeline)
	assert.Empty(t, got.ChatHistory)
	assert.Empty(t, got.Insights)
}

func TestProjectRepo_GetWithChildren_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Projects.GetWithChildren(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_GetWithChildren_AssemblesAggregate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Checkout")
	require.NoError(t, store.Projects.Create(ctx, proj))

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	// Insert out of order; history must come back sorted by timestamp.
	second := testutil.NewTestMessage(domain.RoleUser, "RN - 001 ...", base.Add(time.Minute))
	first := testutil.NewTestMessage(domain.RoleAI, domain.GreetingFor("Checkout"), base)
	require.NoError(t, store.Messages.Create(ctx, proj.ID, second))
	require.NoError(t, store.Messages.Create(ctx, proj.ID, first))

	t1 := testutil.NewTestTask("Login", testutil.WithSquad(domain.SquadBackend))
	t2 := testutil.NewTestTask("Cadastro", testutil.WithColumn(domain.ColumnTesting), testutil.WithDevDoneAt(base))
	require.NoError(t, store.Tasks.UpsertMany(ctx, proj.ID, []domain.Task{*t1, *t2}))

	tl := &domain.Timeline{StartDate: "2025-01-06", EndDate: "2025-02-03", TotalWeeks: 4, CurrentWeek: 2, ProgressMessage: "Semana 2 de 4"}
	require.NoError(t, store.Timelines.Upsert(ctx, proj.ID, tl))
	require.NoError(t, store.Projects.ReplaceInsights(ctx, proj.ID, []string{"a", "b"}))

	got, err := store.Projects.GetWithChildren(ctx, proj.ID)
	require.NoError(t, err)

	require.Len(t, got.ChatHistory, 2)
	assert.Equal(t, first.ID, got.ChatHistory[0].ID)
	assert.Equal(t, domain.RoleAI, got.ChatHistory[0].Role)
	assert.Equal(t, second.ID, got.ChatHistory[1].ID)

	require.Len(t, got.Tasks, 2)
	assert.Equal(t, t1.ID, got.Tasks[0].ID, "tasks keep insertion order")
	assert.Equal(t, domain.SquadBackend, got.Tasks[0].Squad)
	assert.Equal(t, domain.ColumnTesting, got.Tasks[1].Column)
	require.NotNil(t, got.Tasks[1].DevDoneAt)
	assert.True(t, base.Equal(*got.Tasks[1].DevDoneAt))

	assert.Equal(t, tl, got.Timeline)
	assert.Equal(t, []string{"a", "b"}, got.Insights)
}

func TestProjectRepo_ListWithChildren_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := testutil.NewTestProject("Old", testutil.WithCreatedAt(time.Now().Add(-time.Hour)))
	recent := testutil.NewTestProject("Recent")
	require.NoError(t, store.Projects.Create(ctx, old))
	require.NoError(t, store.Projects.Create(ctx, recent))

	task := testutil.NewTestTask("Only in old")
	require.NoError(t, store.Tasks.Upsert(ctx, old.ID, task))

	list, err := store.Projects.ListWithChildren(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, recent.ID, list[0].ID)
	assert.Empty(t, list[0].Tasks)
	assert.Equal(t, old.ID, list[1].ID)
	require.Len(t, list[1].Tasks, 1)
	assert.Equal(t, task.ID, list[1].Tasks[0].ID)
}

func TestProjectRepo_ListWithChildren_Empty(t *testing.T) {
	store := newTestStore(t)

	list, err := store.Projects.ListWithChildren(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProjectRepo_UpdateStatusAndDetails(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Checkout")
	require.NoError(t, store.Projects.Create(ctx, proj))

	require.NoError(t, store.Projects.UpdateStatus(ctx, proj.ID, domain.ProjectCompleted))
	require.NoError(t, store.Projects.UpdateDetails(ctx, proj.ID, "Checkout v2", "novo escopo"))

	got, err := store.Projects.GetWithChildren(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCompleted, got.Status)
	assert.Equal(t, "Checkout v2", got.Name)
	assert.Equal(t, "novo escopo", got.Description)
}

func TestProjectRepo_WritesToMissingProject(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Projects.UpdateStatus(ctx, "missing", domain.ProjectPaused), ErrNotFound)
	assert.ErrorIs(t, store.Projects.UpdateDetails(ctx, "missing", "x", ""), ErrNotFound)
	assert.ErrorIs(t, store.Projects.ReplaceInsights(ctx, "missing", []string{"x"}), ErrNotFound)
	assert.ErrorIs(t, store.Projects.Delete(ctx, "missing"), ErrNotFound)
}

func TestProjectRepo_ReplaceInsightsIsWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Checkout", testutil.WithInsights("old"))
	require.NoError(t, store.Projects.Create(ctx, proj))
	require.NoError(t, store.Projects.ReplaceInsights(ctx, proj.ID, []string{"new 1", "new 2"}))

	got, err := store.Projects.GetWithChildren(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"new 1", "new 2"}, got.Insights)
}

func TestProjectRepo_DeleteCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Checkout")
	require.NoError(t, store.Projects.Create(ctx, proj))
	require.NoError(t, store.Tasks.Upsert(ctx, proj.ID, testutil.NewTestTask("Login")))
	require.NoError(t, store.Timelines.Upsert(ctx, proj.ID, &domain.Timeline{TotalWeeks: 2}))
	require.NoError(t, store.Messages.Create(ctx, proj.ID, testutil.NewTestMessage(domain.RoleAI, "Olá", time.Now())))

	require.NoError(t, store.Projects.Delete(ctx, proj.ID))

	tasks, err := store.Tasks.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = store.Timelines.GetByProject(ctx, proj.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	msgs, err := store.Messages.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
