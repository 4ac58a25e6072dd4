package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/homekeeper/internal/model"
	"github.com/nhle/homekeeper/internal/store"
)

// DashboardAssets is the asset side of the dashboard.
type DashboardAssets interface {
	CountByHome(ctx context.Context, homeID int64) (int, error)
	FindWarrantyExpiring(ctx context.Context, homeID int64, now time.Time, within time.Duration) ([]model.Asset, error)
}

// RecentRecords finds the latest maintenance records of a home.
type RecentRecords interface {
	FindRecent(ctx context.Context, homeID int64, limit int) ([]model.MaintenanceRecord, error)
}

// TaskSchedule finds a home's tasks by due date. Tasks not tied to an
// asset belong to every home.
type TaskSchedule interface {
	FindUpcomingForHome(ctx context.Context, homeID int64, now time.Time, within time.Duration) ([]model.MaintenanceTask, error)
	FindOverdueForHome(ctx context.Context, homeID int64, now time.Time) ([]model.MaintenanceTask, error)
}

// DashboardSource bundles the queries the dashboard runs.
type DashboardSource struct {
	Assets  DashboardAssets
	Records RecentRecords
	Tasks   TaskSchedule
}

// DashboardSourceFrom wires a dashboard to the SQLite stores.
func DashboardSourceFrom(s *store.SQLiteStore) DashboardSource {
	return DashboardSource{Assets: s.Assets, Records: s.Records, Tasks: s.Tasks}
}

// Dashboard is the summary shown for one home.
type Dashboard struct {
	AssetCount         int
	RecentRecords      []model.MaintenanceRecord
	UpcomingTasks      []model.MaintenanceTask
	OverdueTasks       []model.MaintenanceTask
	ExpiringWarranties []model.Asset
	GeneratedAt        time.Time
}

// DashboardModel loads and holds the dashboard for a home.
type DashboardModel struct {
	view

	src    DashboardSource
	homeID int64
	window time.Duration
	recent int
	now    func() time.Time

	data Dashboard
}

// NewDashboardModel builds a dashboard for homeID. Window and recent
// limits come from cfg; non-positive values fall back to 30 days and 5.
func NewDashboardModel(
	src DashboardSource,
	homeID int64,
	cfg model.DashboardConfig,
	log logrus.FieldLogger,
) *DashboardModel {
	days, recent := cfg.WindowDays, cfg.RecentLimit
	if days <= 0 {
		days = 30
	}
	if recent <= 0 {
		recent = 5
	}
	return &DashboardModel{
		view:   view{log: orStandard(log)},
		src:    src,
		homeID: homeID,
		window: time.Duration(days) * 24 * time.Hour,
		recent: recent,
		now:    time.Now,
	}
}

// SetClock replaces the time source used for due-date windows.
func (m *DashboardModel) SetClock(now func() time.Time) { m.now = now }

// Load runs the dashboard queries concurrently. The previous dashboard is
// kept if any query fails.
func (m *DashboardModel) Load(ctx context.Context) error {
	m.begin()

	now := m.now()
	var d Dashboard
	d.GeneratedAt = now

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := m.src.Assets.CountByHome(gctx, m.homeID)
		d.AssetCount = n
		return err
	})
	g.Go(func() error {
		recs, err := m.src.Records.FindRecent(gctx, m.homeID, m.recent)
		d.RecentRecords = recs
		return err
	})
	g.Go(func() error {
		tasks, err := m.src.Tasks.FindUpcomingForHome(gctx, m.homeID, now, m.window)
		d.UpcomingTasks = tasks
		return err
	})
	g.Go(func() error {
		tasks, err := m.src.Tasks.FindOverdueForHome(gctx, m.homeID, now)
		d.OverdueTasks = tasks
		return err
	})
	g.Go(func() error {
		assets, err := m.src.Assets.FindWarrantyExpiring(gctx, m.homeID, now, m.window)
		d.ExpiringWarranties = assets
		return err
	})
	err := g.Wait()

	return m.finish("load the dashboard", err, func() {
		m.data = d
		m.log.WithFields(logrus.Fields{
			"home_id":  m.homeID,
			"assets":   d.AssetCount,
			"upcoming": len(d.UpcomingTasks),
			"overdue":  len(d.OverdueTasks),
		}).Debug("dashboard loaded")
	})
}

// Snapshot returns the last loaded dashboard and the view status.
func (m *DashboardModel) Snapshot() (Dashboard, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, m.status
}
