package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func days(n int) *time.Time {
	t := now.Add(time.Duration(n) * 24 * time.Hour)
	return &t
}

func TestAsset_WarrantyStatusAt(t *testing.T) {
	tests := []struct {
		name string
		exp  *time.Time
		want WarrantyStatus
	}{
		{name: "no expiration", exp: nil, want: WarrantyUnknown},
		{name: "expired yesterday", exp: days(-1), want: WarrantyExpired},
		{name: "expires in ten days", exp: days(10), want: WarrantyExpiringSoon},
		{name: "expires in exactly thirty days", exp: days(30), want: WarrantyExpiringSoon},
		{name: "expires in forty-five days", exp: days(45), want: WarrantyActive},
		{name: "expires right now", exp: &now, want: WarrantyExpiringSoon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Asset{Name: "Furnace", WarrantyExpiration: tt.exp}
			assert.Equal(t, tt.want, a.WarrantyStatusAt(now))
		})
	}
}

func TestMaintenanceTask_IsOverdueAt(t *testing.T) {
	tests := []struct {
		name   string
		due    *time.Time
		status string
		want   bool
	}{
		{name: "no due date", due: nil, status: TaskStatusPending, want: false},
		{name: "past and pending", due: days(-1), status: TaskStatusPending, want: true},
		{name: "past and in progress", due: days(-1), status: TaskStatusInProgress, want: true},
		{name: "past and cancelled", due: days(-1), status: TaskStatusCancelled, want: true},
		{name: "past and completed", due: days(-1), status: TaskStatusCompleted, want: false},
		{name: "future", due: days(1), status: TaskStatusPending, want: false},
		{name: "due now", due: &now, status: TaskStatusPending, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := MaintenanceTask{Title: "x", DueDate: tt.due, Status: tt.status}
			assert.Equal(t, tt.want, task.IsOverdueAt(now))
		})
	}
}
