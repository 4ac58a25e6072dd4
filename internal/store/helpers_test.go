package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/nhle/homekeeper/internal/model"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), discardLogger())
	require.NoError(t, err)
	s.now = func() time.Time { return testNow }
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func at(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func mustHome(t *testing.T, s *SQLiteStore, name string) model.Home {
	t.Helper()
	h, err := s.Homes.Create(context.Background(), model.Home{Name: name})
	require.NoError(t, err)
	return h
}

func mustAsset(t *testing.T, s *SQLiteStore, a model.Asset) model.Asset {
	t.Helper()
	out, err := s.Assets.Create(context.Background(), a)
	require.NoError(t, err)
	return out
}

func mustRecord(t *testing.T, s *SQLiteStore, r model.MaintenanceRecord) model.MaintenanceRecord {
	t.Helper()
	out, err := s.Records.Create(context.Background(), r)
	require.NoError(t, err)
	return out
}

func mustTask(t *testing.T, s *SQLiteStore, task model.MaintenanceTask) model.MaintenanceTask {
	t.Helper()
	out, err := s.Tasks.Create(context.Background(), task)
	require.NoError(t, err)
	return out
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = name(it)
	}
	return out
}

func assetName(a model.Asset) string { return a.Name }
func taskTitle(t model.MaintenanceTask) string { return t.Title }
func recordType(r model.MaintenanceRecord) string { return r.Type }
