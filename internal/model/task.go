package model

import "time"

// Task status constants.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// Task priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// MaintenanceTask is a scheduled or to-do piece of work, optionally tied
// to an asset.
type MaintenanceTask struct {
	ID          int64      `json:"id" db:"id"`
	AssetID     *int64     `json:"asset_id,omitempty" db:"asset_id"`
	Title       string     `json:"title" db:"title" validate:"notblank"`
	Description *string    `json:"description,omitempty" db:"description"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	Priority    *string    `json:"priority,omitempty" db:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status      string     `json:"status" db:"status" validate:"oneof=pending in_progress completed cancelled"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsCompleted reports whether the task has been completed.
func (t MaintenanceTask) IsCompleted() bool { return t.Status == TaskStatusCompleted }

// IsOverdueAt reports whether the task was due before now and is not completed.
func (t MaintenanceTask) IsOverdueAt(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.IsCompleted()
}

// IsOverdue is IsOverdueAt evaluated at the current time.
func (t MaintenanceTask) IsOverdue() bool { return t.IsOverdueAt(time.Now()) }
