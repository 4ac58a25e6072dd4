package store

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/homekeeper/internal/model"
)

var providerTable = table[model.ServiceProvider]{
	name:   "service_providers",
	entity: "service provider",
	columns: []string{
		"home_id", "company", "name", "phone", "email", "specialty",
		"notes", "created_at", "updated_at",
	},
	id: func(p *model.ServiceProvider) *int64 { return &p.ID },
	prepare: func(p *model.ServiceProvider, now time.Time, creating bool) {
		p.Company = strings.TrimSpace(p.Company)
		p.Name = nilIfBlank(p.Name)
		p.Phone = nilIfBlank(p.Phone)
		p.Email = nilIfBlank(p.Email)
		p.Specialty = nilIfBlank(p.Specialty)
		stamp(&p.CreatedAt, &p.UpdatedAt, now, creating)
	},
}

// ServiceProviderStore persists service providers. Deleting a provider
// keeps its maintenance records with service_provider_id set to NULL.
type ServiceProviderStore struct {
	*Repository[model.ServiceProvider]
}

// FindByHome returns a home's providers ordered by company.
func (s *ServiceProviderStore) FindByHome(ctx context.Context, homeID int64) ([]model.ServiceProvider, error) {
	return s.selectWhere(ctx, s.db, "home_id = ?", "company COLLATE NOCASE, id", homeID)
}

// Search returns the home's providers whose company, contact name,
// specialty or notes contain q, ignoring case.
func (s *ServiceProviderStore) Search(ctx context.Context, homeID int64, q string) ([]model.ServiceProvider, error) {
	if strings.TrimSpace(q) == "" {
		return s.FindByHome(ctx, homeID)
	}
	p := containsPattern(q)
	return s.selectWhere(ctx, s.db, `home_id = ? AND (
		fold(company) LIKE ? ESCAPE '\' OR
		fold(COALESCE(name, '')) LIKE ? ESCAPE '\' OR
		fold(COALESCE(specialty, '')) LIKE ? ESCAPE '\' OR
		fold(notes) LIKE ? ESCAPE '\')`,
		"company COLLATE NOCASE, id",
		homeID, p, p, p, p)
}
