package app

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/homekeeper/internal/model"
)

// AssetLister loads a home's assets.
type AssetLister interface {
	FindByHome(ctx context.Context, homeID int64) ([]model.Asset, error)
}

// AssetRow is an asset with its warranty status as of load time.
type AssetRow struct {
	model.Asset
	Warranty model.WarrantyStatus
}

// AssetFilter narrows the loaded assets. Zero fields match everything.
type AssetFilter struct {
	Query      string
	CategoryID *int64
	LocationID *int64
	Warranty   model.WarrantyStatus
}

func (f AssetFilter) match(r AssetRow) bool {
	if f.CategoryID != nil && (r.CategoryID == nil || *r.CategoryID != *f.CategoryID) {
		return false
	}
	if f.LocationID != nil && (r.LocationID == nil || *r.LocationID != *f.LocationID) {
		return false
	}
	if f.Warranty != "" && r.Warranty != f.Warranty {
		return false
	}
	return containsFold(f.Query, r.Name, deref(r.Manufacturer), deref(r.ModelNumber), r.Notes)
}

// AssetListModel holds a home's assets.
type AssetListModel struct {
	view

	src    AssetLister
	homeID int64
	now    func() time.Time

	rows   []AssetRow
	filter AssetFilter
}

// NewAssetListModel returns an empty list for homeID.
func NewAssetListModel(src AssetLister, homeID int64, log logrus.FieldLogger) *AssetListModel {
	return &AssetListModel{
		view:   view{log: orStandard(log)},
		src:    src,
		homeID: homeID,
		now:    time.Now,
	}
}

// SetClock replaces the time source used for warranty status.
func (m *AssetListModel) SetClock(now func() time.Time) { m.now = now }

// Load fetches the home's assets.
func (m *AssetListModel) Load(ctx context.Context) error {
	m.begin()
	assets, err := m.src.FindByHome(ctx, m.homeID)
	now := m.now()
	return m.finish("load assets", err, func() {
		m.rows = make([]AssetRow, len(assets))
		for i, a := range assets {
			m.rows[i] = AssetRow{Asset: a, Warranty: a.WarrantyStatusAt(now)}
		}
	})
}

// SetFilter replaces the active filter.
func (m *AssetListModel) SetFilter(f AssetFilter) {
	m.mu.Lock()
	m.filter = f
	m.mu.Unlock()
}

// Snapshot returns the rows passing the filter and the view status.
func (m *AssetListModel) Snapshot() ([]AssetRow, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AssetRow, 0, len(m.rows))
	for _, r := range m.rows {
		if m.filter.match(r) {
			out = append(out, r)
		}
	}
	return out, m.status
}

// containsFold reports whether any field contains q, ignoring case.
// A blank q matches.
func containsFold(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
