package store

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/homekeeper/internal/model"
)

var homeTable = table[model.Home]{
	name:   "homes",
	entity: "home",
	columns: []string{
		"name", "address", "purchase_date", "square_footage",
		"created_at", "updated_at",
	},
	id: func(h *model.Home) *int64 { return &h.ID },
	prepare: func(h *model.Home, now time.Time, creating bool) {
		h.Name = strings.TrimSpace(h.Name)
		h.Address = strings.TrimSpace(h.Address)
		h.PurchaseDate = utcPtr(h.PurchaseDate)
		stamp(&h.CreatedAt, &h.UpdatedAt, now, creating)
	},
}

// HomeStore persists homes. Deleting a home cascades to everything it owns.
type HomeStore struct {
	*Repository[model.Home]
}

// First returns the oldest home, which the application treats as the
// default, or nil when none exists yet.
func (s *HomeStore) First(ctx context.Context) (*model.Home, error) {
	homes, err := s.selectQuery(ctx, s.db, "SELECT * FROM homes ORDER BY id LIMIT 1")
	if err != nil {
		return nil, err
	}
	if len(homes) == 0 {
		return nil, nil
	}
	return &homes[0], nil
}
