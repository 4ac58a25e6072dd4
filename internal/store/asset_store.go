package store

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/homekeeper/internal/model"
)

var assetTable = table[model.Asset]{
	name:   "assets",
	entity: "asset",
	columns: []string{
		"home_id", "category_id", "location_id", "name",
		"manufacturer", "model_number", "serial_number",
		"purchase_date", "installation_date", "warranty_expiration",
		"notes", "created_at", "updated_at",
	},
	id: func(a *model.Asset) *int64 { return &a.ID },
	prepare: func(a *model.Asset, now time.Time, creating bool) {
		a.Name = strings.TrimSpace(a.Name)
		a.Manufacturer = nilIfBlank(a.Manufacturer)
		a.ModelNumber = nilIfBlank(a.ModelNumber)
		a.SerialNumber = nilIfBlank(a.SerialNumber)
		a.PurchaseDate = utcPtr(a.PurchaseDate)
		a.InstallationDate = utcPtr(a.InstallationDate)
		a.WarrantyExpiration = utcPtr(a.WarrantyExpiration)
		stamp(&a.CreatedAt, &a.UpdatedAt, now, creating)
	},
}

// AssetStore persists assets. Deleting an asset cascades to its
// maintenance records, tasks and attachments.
type AssetStore struct {
	*Repository[model.Asset]
}

// FindByHome returns a home's assets ordered by name.
func (s *AssetStore) FindByHome(ctx context.Context, homeID int64) ([]model.Asset, error) {
	return s.selectWhere(ctx, s.db, "home_id = ?", "name COLLATE NOCASE, id", homeID)
}

// FindByCategory returns the assets in a category ordered by name.
func (s *AssetStore) FindByCategory(ctx context.Context, categoryID int64) ([]model.Asset, error) {
	return s.selectWhere(ctx, s.db, "category_id = ?", "name COLLATE NOCASE, id", categoryID)
}

// FindByLocation returns the assets in a location ordered by name.
func (s *AssetStore) FindByLocation(ctx context.Context, locationID int64) ([]model.Asset, error) {
	return s.selectWhere(ctx, s.db, "location_id = ?", "name COLLATE NOCASE, id", locationID)
}

// CountByHome returns the number of assets a home has.
func (s *AssetStore) CountByHome(ctx context.Context, homeID int64) (int, error) {
	return s.count(ctx, "home_id = ?", homeID)
}

// Search returns the home's assets whose name, manufacturer, model number
// or notes contain q, ignoring case. A blank query returns every asset.
func (s *AssetStore) Search(ctx context.Context, homeID int64, q string) ([]model.Asset, error) {
	if strings.TrimSpace(q) == "" {
		return s.FindByHome(ctx, homeID)
	}
	p := containsPattern(q)
	return s.selectWhere(ctx, s.db, `home_id = ? AND (
		fold(name) LIKE ? ESCAPE '\' OR
		fold(COALESCE(manufacturer, '')) LIKE ? ESCAPE '\' OR
		fold(COALESCE(model_number, '')) LIKE ? ESCAPE '\' OR
		fold(notes) LIKE ? ESCAPE '\')`,
		"name COLLATE NOCASE, id",
		homeID, p, p, p, p)
}

// FindWarrantyExpiring returns the home's assets whose warranty ends
// between now and now+within, soonest first. Already expired warranties
// are not included.
func (s *AssetStore) FindWarrantyExpiring(
	ctx context.Context,
	homeID int64,
	now time.Time,
	within time.Duration,
) ([]model.Asset, error) {
	w := window(now, within)
	return s.selectWhere(ctx, s.db,
		"home_id = ? AND warranty_expiration >= ? AND warranty_expiration <= ?",
		"warranty_expiration, id",
		homeID, w.From, w.To)
}
