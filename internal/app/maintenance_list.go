package app

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/nhle/homekeeper/internal/model"
	"github.com/nhle/homekeeper/internal/store"
)

// RecordLister loads maintenance history.
type RecordLister interface {
	FindByHome(ctx context.Context, homeID int64) ([]model.MaintenanceRecord, error)
	FindByAsset(ctx context.Context, assetID int64) ([]model.MaintenanceRecord, error)
	FindByDateRange(ctx context.Context, homeID int64, r store.DateRange) ([]model.MaintenanceRecord, error)
}

// RecordFilter narrows the loaded records.
type RecordFilter struct {
	Query string
	Type  string
}

func (f RecordFilter) match(r model.MaintenanceRecord) bool {
	if f.Type != "" && !strings.EqualFold(f.Type, r.Type) {
		return false
	}
	return containsFold(f.Query, r.Type, deref(r.Description), r.Notes)
}

// MaintenanceListModel holds the maintenance history of a home, or of a
// single asset when scoped with ForAsset.
type MaintenanceListModel struct {
	view

	src     RecordLister
	homeID  int64
	assetID *int64
	period  *store.DateRange

	records []model.MaintenanceRecord
	filter  RecordFilter
}

// NewMaintenanceListModel returns an empty history for homeID.
func NewMaintenanceListModel(src RecordLister, homeID int64, log logrus.FieldLogger) *MaintenanceListModel {
	return &MaintenanceListModel{
		view:   view{log: orStandard(log)},
		src:    src,
		homeID: homeID,
	}
}

// ForAsset scopes the next Load to one asset. nil restores the whole home.
func (m *MaintenanceListModel) ForAsset(assetID *int64) {
	m.mu.Lock()
	m.assetID = assetID
	m.mu.Unlock()
}

// ForPeriod limits the next Load to records dated within r, bounds
// included. nil removes the limit.
func (m *MaintenanceListModel) ForPeriod(r *store.DateRange) {
	m.mu.Lock()
	m.period = r
	m.mu.Unlock()
}

// Load fetches records, newest first, or oldest first when a period is
// set.
func (m *MaintenanceListModel) Load(ctx context.Context) error {
	m.begin()

	m.mu.Lock()
	assetID, period := m.assetID, m.period
	m.mu.Unlock()

	var (
		recs []model.MaintenanceRecord
		err  error
	)
	switch {
	case period != nil:
		recs, err = m.src.FindByDateRange(ctx, m.homeID, *period)
		if err == nil && assetID != nil {
			recs = onAsset(recs, *assetID)
		}
	case assetID != nil:
		recs, err = m.src.FindByAsset(ctx, *assetID)
	default:
		recs, err = m.src.FindByHome(ctx, m.homeID)
	}
	return m.finish("load maintenance history", err, func() { m.records = recs })
}

// SetFilter replaces the active filter.
func (m *MaintenanceListModel) SetFilter(f RecordFilter) {
	m.mu.Lock()
	m.filter = f
	m.mu.Unlock()
}

// MaintenanceSummary is the filtered history with its cost totals.
type MaintenanceSummary struct {
	Records     []model.MaintenanceRecord
	TotalCost   decimal.Decimal
	AverageCost decimal.Decimal
}

// Snapshot returns the filtered records with totals and the view status.
func (m *MaintenanceListModel) Snapshot() (MaintenanceSummary, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.MaintenanceRecord, 0, len(m.records))
	for _, r := range m.records {
		if m.filter.match(r) {
			out = append(out, r)
		}
	}
	return MaintenanceSummary{
		Records:     out,
		TotalCost:   TotalCost(out),
		AverageCost: AverageCost(out),
	}, m.status
}

func onAsset(recs []model.MaintenanceRecord, assetID int64) []model.MaintenanceRecord {
	out := recs[:0]
	for _, r := range recs {
		if r.AssetID == assetID {
			out = append(out, r)
		}
	}
	return out
}
