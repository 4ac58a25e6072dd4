package store

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/homekeeper/internal/model"
)

var categoryTable = table[model.Category]{
	name:    "categories",
	entity:  "category",
	columns: []string{"home_id", "name", "icon", "created_at", "updated_at"},
	id:      func(c *model.Category) *int64 { return &c.ID },
	prepare: func(c *model.Category, now time.Time, creating bool) {
		c.Name = strings.TrimSpace(c.Name)
		c.Icon = strings.TrimSpace(c.Icon)
		stamp(&c.CreatedAt, &c.UpdatedAt, now, creating)
	},
}

var locationTable = table[model.Location]{
	name:    "locations",
	entity:  "location",
	columns: []string{"home_id", "name", "floor", "created_at", "updated_at"},
	id:      func(l *model.Location) *int64 { return &l.ID },
	prepare: func(l *model.Location, now time.Time, creating bool) {
		l.Name = strings.TrimSpace(l.Name)
		stamp(&l.CreatedAt, &l.UpdatedAt, now, creating)
	},
}

// CategoryStore persists categories. Deleting a category leaves its assets
// in place with category_id set to NULL.
type CategoryStore struct {
	*Repository[model.Category]
}

// FindByHome returns a home's categories ordered by name.
func (s *CategoryStore) FindByHome(ctx context.Context, homeID int64) ([]model.Category, error) {
	return s.selectWhere(ctx, s.db, "home_id = ?", "name COLLATE NOCASE, id", homeID)
}

// FindByName returns the home's category with the given name, compared
// case-insensitively, or nil.
func (s *CategoryStore) FindByName(ctx context.Context, homeID int64, name string) (*model.Category, error) {
	found, err := s.selectWhere(ctx, s.db,
		"home_id = ? AND name = ? COLLATE NOCASE", "id",
		homeID, strings.TrimSpace(name))
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return &found[0], nil
}

// LocationStore persists locations. Deleting a location leaves its assets
// in place with location_id set to NULL.
type LocationStore struct {
	*Repository[model.Location]
}

// FindByHome returns a home's locations ordered by floor, then name.
func (s *LocationStore) FindByHome(ctx context.Context, homeID int64) ([]model.Location, error) {
	return s.selectWhere(ctx, s.db, "home_id = ?",
		"floor IS NULL, floor, name COLLATE NOCASE, id", homeID)
}

// FindByName returns the home's location with the given name, compared
// case-insensitively, or nil.
func (s *LocationStore) FindByName(ctx context.Context, homeID int64, name string) (*model.Location, error) {
	found, err := s.selectWhere(ctx, s.db,
		"home_id = ? AND name = ? COLLATE NOCASE", "id",
		homeID, strings.TrimSpace(name))
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return &found[0], nil
}
