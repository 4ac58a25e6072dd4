package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/homekeeper/internal/model"
)

// TaskSource loads tasks and flips their completion.
type TaskSource interface {
	FindForHome(ctx context.Context, homeID int64) ([]model.MaintenanceTask, error)
	FindByID(ctx context.Context, id int64) (*model.MaintenanceTask, error)
	Complete(ctx context.Context, id int64, now time.Time) (*model.MaintenanceTask, error)
	Reopen(ctx context.Context, id int64) (*model.MaintenanceTask, error)
}

// TaskRow is a task with its overdue flag as of load time.
type TaskRow struct {
	model.MaintenanceTask
	Overdue bool
}

// TaskFilter narrows the loaded tasks.
type TaskFilter struct {
	Status      string
	OverdueOnly bool
}

func (f TaskFilter) match(r TaskRow) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return !f.OverdueOnly || r.Overdue
}

// TaskListModel holds the tasks of a home, including tasks not tied to
// an asset.
type TaskListModel struct {
	view

	src    TaskSource
	homeID int64
	now    func() time.Time

	rows   []TaskRow
	filter TaskFilter
}

// NewTaskListModel returns an empty task list for homeID.
func NewTaskListModel(src TaskSource, homeID int64, log logrus.FieldLogger) *TaskListModel {
	return &TaskListModel{
		view:   view{log: orStandard(log)},
		src:    src,
		homeID: homeID,
		now:    time.Now,
	}
}

// SetClock replaces the time source used for the overdue flag.
func (m *TaskListModel) SetClock(now func() time.Time) { m.now = now }

// Load fetches the home's tasks.
func (m *TaskListModel) Load(ctx context.Context) error {
	m.begin()
	tasks, err := m.src.FindForHome(ctx, m.homeID)
	now := m.now()
	return m.finish("load tasks", err, func() {
		m.rows = make([]TaskRow, len(tasks))
		for i, t := range tasks {
			m.rows[i] = TaskRow{MaintenanceTask: t, Overdue: t.IsOverdueAt(now)}
		}
	})
}

// SetFilter replaces the active filter.
func (m *TaskListModel) SetFilter(f TaskFilter) {
	m.mu.Lock()
	m.filter = f
	m.mu.Unlock()
}

// Snapshot returns the rows passing the filter and the view status.
func (m *TaskListModel) Snapshot() ([]TaskRow, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TaskRow, 0, len(m.rows))
	for _, r := range m.rows {
		if m.filter.match(r) {
			out = append(out, r)
		}
	}
	return out, m.status
}

// ToggleComplete completes a task that is not completed and reopens one
// that is. The loaded row is updated in place. It returns nil when the
// task does not exist.
func (m *TaskListModel) ToggleComplete(ctx context.Context, id int64) (*model.MaintenanceTask, error) {
	m.begin()

	var (
		updated *model.MaintenanceTask
		verb    = "complete"
	)
	current, err := m.src.FindByID(ctx, id)
	if err == nil && current != nil {
		if current.IsCompleted() {
			verb = "reopen"
			updated, err = m.src.Reopen(ctx, id)
		} else {
			updated, err = m.src.Complete(ctx, id, m.now())
		}
	}

	err = m.finish(verb+" the task", err, func() {
		if updated == nil {
			return
		}
		now := m.now()
		for i := range m.rows {
			if m.rows[i].ID == id {
				m.rows[i] = TaskRow{MaintenanceTask: *updated, Overdue: updated.IsOverdueAt(now)}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		m.setMessage(fmt.Sprintf("Task %d not found", id))
	}
	return updated, nil
}
