package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nhle/homekeeper/internal/model"
)

// ProviderLister loads a home's service providers.
type ProviderLister interface {
	FindByHome(ctx context.Context, homeID int64) ([]model.ServiceProvider, error)
}

// ProviderListModel holds a home's service providers.
type ProviderListModel struct {
	view

	src    ProviderLister
	homeID int64

	providers []model.ServiceProvider
	query     string
}

// NewProviderListModel returns an empty provider list for homeID.
func NewProviderListModel(src ProviderLister, homeID int64, log logrus.FieldLogger) *ProviderListModel {
	return &ProviderListModel{
		view:   view{log: orStandard(log)},
		src:    src,
		homeID: homeID,
	}
}

// Load fetches the home's providers.
func (m *ProviderListModel) Load(ctx context.Context) error {
	m.begin()
	providers, err := m.src.FindByHome(ctx, m.homeID)
	return m.finish("load service providers", err, func() { m.providers = providers })
}

// SetQuery narrows the list to providers whose company, contact,
// specialty or notes contain q.
func (m *ProviderListModel) SetQuery(q string) {
	m.mu.Lock()
	m.query = q
	m.mu.Unlock()
}

// Snapshot returns the providers passing the query and the view status.
func (m *ProviderListModel) Snapshot() ([]model.ServiceProvider, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ServiceProvider, 0, len(m.providers))
	for _, p := range m.providers {
		if containsFold(m.query, p.Company, deref(p.Name), deref(p.Specialty), p.Notes) {
			out = append(out, p)
		}
	}
	return out, m.status
}
