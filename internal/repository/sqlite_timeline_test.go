package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/saad/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineRepo_UpsertReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	proj := seedProject(t, store)

	require.NoError(t, store.Timelines.Upsert(ctx, proj.ID, &domain.Timeline{StartDate: "2025-01-06", EndDate: "2025-02-03", TotalWeeks: 4, CurrentWeek: 1}))
	require.NoError(t, store.Timelines.Upsert(ctx, proj.ID, &domain.Timeline{StartDate: "2025-01-06", EndDate: "2025-03-03", TotalWeeks: 8, CurrentWeek: 3, ProgressMessage: "Semana 3"}))

	got, err := store.Timelines.GetByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.TotalWeeks)
	assert.Equal(t, 3, got.CurrentWeek)
	assert.Equal(t, "2025-03-03", got.EndDate)
	assert.Equal(t, "Semana 3", got.ProgressMessage)

	var rows int
	require.NoError(t, store.Timelines.(*SQLiteTimelineRepo).db.QueryRowContext(ctx, `SELECT COUNT(*) FROM timelines`).Scan(&rows))
	assert.Equal(t, 1, rows, "one timeline row per project")
}

func TestTimelineRepo_RejectsZeroWeeks(t *testing.T) {
	store := newTestStore(t)
	proj := seedProject(t, store)

	err := store.Timelines.Upsert(context.Background(), proj.ID, &domain.Timeline{TotalWeeks: 0})
	assert.Error(t, err)
}

func TestTimelineRepo_GetMissing(t *testing.T) {
	store := newTestStore(t)
	proj := seedProject(t, store)

	_, err := store.Timelines.GetByProject(context.Background(), proj.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
