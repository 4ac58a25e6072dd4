package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/homekeeper/internal/model"
)

func seedTasks(t *testing.T, s *SQLiteStore) {
	t.Helper()
	for _, task := range []model.MaintenanceTask{
		{Title: "overdue", DueDate: at(-2 * day)},
		{Title: "overdue cancelled", DueDate: at(-day), Status: model.TaskStatusCancelled},
		{Title: "done late", DueDate: at(-3 * day), Status: model.TaskStatusCompleted},
		{Title: "soon", DueDate: at(5 * day), Status: model.TaskStatusInProgress},
		{Title: "soon done", DueDate: at(3 * day), Status: model.TaskStatusCompleted},
		{Title: "far", DueDate: at(60 * day)},
		{Title: "whenever"},
	} {
		mustTask(t, s, task)
	}
}

func TestTaskStore_FindOverdue(t *testing.T) {
	s := newTestStore(t)
	seedTasks(t, s)

	got, err := s.Tasks.FindOverdue(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"overdue", "overdue cancelled"}, names(got, taskTitle))

	for _, task := range got {
		assert.True(t, task.IsOverdueAt(testNow))
	}
}

func TestTaskStore_FindUpcoming(t *testing.T) {
	s := newTestStore(t)
	seedTasks(t, s)

	got, err := s.Tasks.FindUpcoming(context.Background(), testNow, 30*day)
	require.NoError(t, err)
	assert.Equal(t, []string{"soon"}, names(got, taskTitle))
}

func TestTaskStore_FindByStatus(t *testing.T) {
	s := newTestStore(t)
	seedTasks(t, s)

	got, err := s.Tasks.FindByStatus(context.Background(), model.TaskStatusPending)
	require.NoError(t, err)
	assert.Equal(t, []string{"overdue", "far", "whenever"}, names(got, taskTitle))
}

func TestTaskStore_CompleteAndReopen(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	task := mustTask(t, s, model.MaintenanceTask{Title: "Flush water heater", DueDate: at(-day)})
	assert.Equal(t, model.TaskStatusPending, task.Status)
	assert.Nil(t, task.CompletedAt)

	finished := testNow.Add(-2 * time.Hour)
	done, err := s.Tasks.Complete(ctx, task.ID, finished)
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, model.TaskStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.WithinDuration(t, finished, *done.CompletedAt, 0, "completion time comes from the caller, not the store clock")
	assert.False(t, done.IsOverdueAt(testNow))

	reloaded, err := s.Tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.CompletedAt)
	assert.WithinDuration(t, finished, *reloaded.CompletedAt, 0)

	again, err := s.Tasks.Complete(ctx, task.ID, testNow)
	require.NoError(t, err)
	assert.WithinDuration(t, finished, *again.CompletedAt, 0, "completing twice keeps the first completion time")

	open, err := s.Tasks.Reopen(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, open.Status)
	assert.Nil(t, open.CompletedAt)

	missing, err := s.Tasks.Complete(ctx, 9999, testNow)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTaskStore_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Tasks.Create(ctx, model.MaintenanceTask{Title: "x", Priority: ptr("critical")})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "priority", ve.Field)

	_, err = s.Tasks.Create(ctx, model.MaintenanceTask{Title: "x", Status: "paused"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)

	_, err = s.Tasks.Create(ctx, model.MaintenanceTask{Title: " "})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)
}

func TestTaskStore_FindForHome(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h := mustHome(t, s, "Home")
	other := mustHome(t, s, "Other")
	a := mustAsset(t, s, model.Asset{HomeID: h.ID, Name: "Furnace"})
	b := mustAsset(t, s, model.Asset{HomeID: other.ID, Name: "Boiler"})

	mustTask(t, s, model.MaintenanceTask{AssetID: &a.ID, Title: "mine", DueDate: at(day)})
	mustTask(t, s, model.MaintenanceTask{AssetID: &b.ID, Title: "theirs"})
	mustTask(t, s, model.MaintenanceTask{Title: "general"})

	got, err := s.Tasks.FindForHome(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"mine", "general"}, names(got, taskTitle))

	byAsset, err := s.Tasks.FindByAsset(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"theirs"}, names(byAsset, taskTitle))
}

func TestTaskStore_ScheduleForHome(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h := mustHome(t, s, "Home")
	other := mustHome(t, s, "Other")
	a := mustAsset(t, s, model.Asset{HomeID: h.ID, Name: "Furnace"})
	b := mustAsset(t, s, model.Asset{HomeID: other.ID, Name: "Boiler"})

	mustTask(t, s, model.MaintenanceTask{AssetID: &a.ID, Title: "mine late", DueDate: at(-day)})
	mustTask(t, s, model.MaintenanceTask{AssetID: &a.ID, Title: "mine soon", DueDate: at(2 * day)})
	mustTask(t, s, model.MaintenanceTask{AssetID: &b.ID, Title: "theirs late", DueDate: at(-day)})
	mustTask(t, s, model.MaintenanceTask{AssetID: &b.ID, Title: "theirs soon", DueDate: at(2 * day)})
	mustTask(t, s, model.MaintenanceTask{Title: "general late", DueDate: at(-2 * day)})
	mustTask(t, s, model.MaintenanceTask{
		AssetID: &a.ID, Title: "mine done", DueDate: at(-day), Status: model.TaskStatusCompleted,
	})

	overdue, err := s.Tasks.FindOverdueForHome(ctx, h.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"general late", "mine late"}, names(overdue, taskTitle))

	upcoming, err := s.Tasks.FindUpcomingForHome(ctx, h.ID, testNow, 30*day)
	require.NoError(t, err)
	assert.Equal(t, []string{"mine soon"}, names(upcoming, taskTitle))

	theirs, err := s.Tasks.FindOverdueForHome(ctx, other.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"general late", "theirs late"}, names(theirs, taskTitle))
}
