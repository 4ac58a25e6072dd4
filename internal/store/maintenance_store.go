package store

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/homekeeper/internal/model"
)

var recordTable = table[model.MaintenanceRecord]{
	name:   "maintenance_records",
	entity: "maintenance record",
	columns: []string{
		"asset_id", "service_provider_id", "date", "type", "description",
		"cost", "notes", "created_at", "updated_at",
	},
	id: func(r *model.MaintenanceRecord) *int64 { return &r.ID },
	prepare: func(r *model.MaintenanceRecord, now time.Time, creating bool) {
		r.Type = strings.TrimSpace(r.Type)
		r.Description = nilIfBlank(r.Description)
		r.Date = r.Date.UTC()
		stamp(&r.CreatedAt, &r.UpdatedAt, now, creating)
	},
	check: func(r *model.MaintenanceRecord) error {
		if r.Date.IsZero() {
			return &ValidationError{Entity: "maintenance record", Field: "date", Reason: "must not be empty"}
		}
		if r.Cost.Valid && r.Cost.Decimal.IsNegative() {
			return &ValidationError{Entity: "maintenance record", Field: "cost", Reason: "must not be negative"}
		}
		return nil
	},
}

// recordsForHome selects maintenance records through their asset's home.
const recordsForHome = `
SELECT mr.* FROM maintenance_records mr
INNER JOIN assets a ON a.id = mr.asset_id
WHERE a.home_id = ?`

// MaintenanceRecordStore persists maintenance records. Deleting a record
// cascades to its attachments.
type MaintenanceRecordStore struct {
	*Repository[model.MaintenanceRecord]
}

// FindByAsset returns an asset's records, newest first.
func (s *MaintenanceRecordStore) FindByAsset(ctx context.Context, assetID int64) ([]model.MaintenanceRecord, error) {
	return s.selectWhere(ctx, s.db, "asset_id = ?", "date DESC, id DESC", assetID)
}

// FindByProvider returns the records a provider performed, newest first.
func (s *MaintenanceRecordStore) FindByProvider(ctx context.Context, providerID int64) ([]model.MaintenanceRecord, error) {
	return s.selectWhere(ctx, s.db, "service_provider_id = ?", "date DESC, id DESC", providerID)
}

// FindByHome returns every record for the home's assets, newest first.
func (s *MaintenanceRecordStore) FindByHome(ctx context.Context, homeID int64) ([]model.MaintenanceRecord, error) {
	return s.selectQuery(ctx, s.db,
		recordsForHome+" ORDER BY mr.date DESC, mr.id DESC", homeID)
}

// FindByDateRange returns the home's records dated within r, bounds
// included, oldest first.
func (s *MaintenanceRecordStore) FindByDateRange(
	ctx context.Context,
	homeID int64,
	r DateRange,
) ([]model.MaintenanceRecord, error) {
	return s.selectQuery(ctx, s.db,
		recordsForHome+" AND mr.date >= ? AND mr.date <= ? ORDER BY mr.date, mr.id",
		homeID, r.From.UTC(), r.To.UTC())
}

// FindRecent returns the home's limit most recent records by date.
func (s *MaintenanceRecordStore) FindRecent(
	ctx context.Context,
	homeID int64,
	limit int,
) ([]model.MaintenanceRecord, error) {
	return s.selectQuery(ctx, s.db,
		recordsForHome+" ORDER BY mr.date DESC, mr.id DESC LIMIT ?", homeID, limit)
}

// Search returns the home's records whose type, description or notes
// contain q, ignoring case, newest first.
func (s *MaintenanceRecordStore) Search(
	ctx context.Context,
	homeID int64,
	q string,
) ([]model.MaintenanceRecord, error) {
	if strings.TrimSpace(q) == "" {
		return s.FindByHome(ctx, homeID)
	}
	p := containsPattern(q)
	return s.selectQuery(ctx, s.db, recordsForHome+` AND (
		fold(mr.type) LIKE ? ESCAPE '\' OR
		fold(COALESCE(mr.description, '')) LIKE ? ESCAPE '\' OR
		fold(mr.notes) LIKE ? ESCAPE '\')
		ORDER BY mr.date DESC, mr.id DESC`,
		homeID, p, p, p)
}
