package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/nhle/homekeeper/internal/model"
	"github.com/nhle/homekeeper/internal/store"
	"github.com/nhle/homekeeper/tests/testutil"
)

const day = 24 * time.Hour

func discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func ptr[T any](v T) *T { return &v }

// fixture is a seeded store with a fixed reference time.
type fixture struct {
	s    *store.SQLiteStore
	home *model.Home
	now  time.Time
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s := testutil.NewTestStore(t)
	home, _, err := s.Seed(context.Background(), model.DefaultSeed())
	require.NoError(t, err)
	return fixture{s: s, home: home, now: time.Now().UTC().Truncate(time.Second)}
}

func (f fixture) clock() time.Time { return f.now }

func (f fixture) at(d time.Duration) *time.Time {
	t := f.now.Add(d)
	return &t
}

func (f fixture) asset(t *testing.T, a model.Asset) model.Asset {
	t.Helper()
	a.HomeID = f.home.ID
	out, err := f.s.Assets.Create(context.Background(), a)
	require.NoError(t, err)
	return out
}

func (f fixture) record(t *testing.T, r model.MaintenanceRecord) model.MaintenanceRecord {
	t.Helper()
	out, err := f.s.Records.Create(context.Background(), r)
	require.NoError(t, err)
	return out
}

func (f fixture) task(t *testing.T, task model.MaintenanceTask) model.MaintenanceTask {
	t.Helper()
	out, err := f.s.Tasks.Create(context.Background(), task)
	require.NoError(t, err)
	return out
}
