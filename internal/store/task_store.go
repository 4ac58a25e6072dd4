package store

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/homekeeper/internal/model"
)

var taskTable = table[model.MaintenanceTask]{
	name:   "maintenance_tasks",
	entity: "maintenance task",
	columns: []string{
		"asset_id", "title", "description", "due_date", "priority",
		"status", "completed_at", "created_at", "updated_at",
	},
	id: func(t *model.MaintenanceTask) *int64 { return &t.ID },
	prepare: func(t *model.MaintenanceTask, now time.Time, creating bool) {
		t.Title = strings.TrimSpace(t.Title)
		t.Description = nilIfBlank(t.Description)
		t.Priority = nilIfBlank(t.Priority)
		t.DueDate = utcPtr(t.DueDate)
		if t.Status == "" {
			t.Status = model.TaskStatusPending
		}

		// completed_at follows status.
		if t.Status == model.TaskStatusCompleted {
			if t.CompletedAt == nil {
				t.CompletedAt = &now
			}
			t.CompletedAt = utcPtr(t.CompletedAt)
		} else {
			t.CompletedAt = nil
		}

		stamp(&t.CreatedAt, &t.UpdatedAt, now, creating)
	},
}

// inHome matches tasks on a home's assets and tasks not tied to any asset.
const inHome = "(asset_id IS NULL OR asset_id IN (SELECT id FROM assets WHERE home_id = ?))"

// MaintenanceTaskStore persists maintenance tasks.
type MaintenanceTaskStore struct {
	*Repository[model.MaintenanceTask]
}

// FindByAsset returns an asset's tasks, earliest due first; tasks without
// a due date sort last.
func (s *MaintenanceTaskStore) FindByAsset(ctx context.Context, assetID int64) ([]model.MaintenanceTask, error) {
	return s.selectWhere(ctx, s.db, "asset_id = ?", "due_date IS NULL, due_date, id", assetID)
}

// FindForHome returns tasks on the home's assets plus tasks not tied to
// any asset.
func (s *MaintenanceTaskStore) FindForHome(ctx context.Context, homeID int64) ([]model.MaintenanceTask, error) {
	return s.selectWhere(ctx, s.db, inHome, "due_date IS NULL, due_date, id", homeID)
}

// FindByStatus returns the tasks in the given status.
func (s *MaintenanceTaskStore) FindByStatus(ctx context.Context, status string) ([]model.MaintenanceTask, error) {
	return s.selectWhere(ctx, s.db, "status = ?", "due_date IS NULL, due_date, id", status)
}

// FindUpcoming returns tasks that are not completed and fall due between
// now and now+within, soonest first.
func (s *MaintenanceTaskStore) FindUpcoming(
	ctx context.Context,
	now time.Time,
	within time.Duration,
) ([]model.MaintenanceTask, error) {
	w := window(now, within)
	return s.selectWhere(ctx, s.db,
		"status != ? AND due_date >= ? AND due_date <= ?",
		"due_date, id",
		model.TaskStatusCompleted, w.From, w.To)
}

// FindOverdue returns tasks that are not completed and were due before now,
// most overdue first.
func (s *MaintenanceTaskStore) FindOverdue(ctx context.Context, now time.Time) ([]model.MaintenanceTask, error) {
	return s.selectWhere(ctx, s.db,
		"status != ? AND due_date < ?",
		"due_date, id",
		model.TaskStatusCompleted, now.UTC())
}

// FindUpcomingForHome is FindUpcoming restricted to the tasks FindForHome
// returns.
func (s *MaintenanceTaskStore) FindUpcomingForHome(
	ctx context.Context,
	homeID int64,
	now time.Time,
	within time.Duration,
) ([]model.MaintenanceTask, error) {
	w := window(now, within)
	return s.selectWhere(ctx, s.db,
		inHome+" AND status != ? AND due_date >= ? AND due_date <= ?",
		"due_date, id",
		homeID, model.TaskStatusCompleted, w.From, w.To)
}

// FindOverdueForHome is FindOverdue restricted to the tasks FindForHome
// returns.
func (s *MaintenanceTaskStore) FindOverdueForHome(
	ctx context.Context,
	homeID int64,
	now time.Time,
) ([]model.MaintenanceTask, error) {
	return s.selectWhere(ctx, s.db,
		inHome+" AND status != ? AND due_date < ?",
		"due_date, id",
		homeID, model.TaskStatusCompleted, now.UTC())
}

// Complete marks a task completed at now. A task that is already completed
// keeps its original completed_at. It returns nil when the task does not
// exist.
func (s *MaintenanceTaskStore) Complete(ctx context.Context, id int64, now time.Time) (*model.MaintenanceTask, error) {
	return s.Update(ctx, id, func(t *model.MaintenanceTask) {
		if t.Status != model.TaskStatusCompleted || t.CompletedAt == nil {
			at := now.UTC()
			t.CompletedAt = &at
		}
		t.Status = model.TaskStatusCompleted
	})
}

// Reopen moves a task back to pending and clears completed_at. It returns
// nil when the task does not exist.
func (s *MaintenanceTaskStore) Reopen(ctx context.Context, id int64) (*model.MaintenanceTask, error) {
	return s.Update(ctx, id, func(t *model.MaintenanceTask) {
		t.Status = model.TaskStatusPending
	})
}
