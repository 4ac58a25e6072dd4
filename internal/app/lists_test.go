package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/homekeeper/internal/model"
	"github.com/nhle/homekeeper/internal/store"
)

func TestAssetListModel_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hvac, err := f.s.Categories.FindByName(ctx, f.home.ID, "hvac")
	require.NoError(t, err)
	require.NotNil(t, hvac)

	f.asset(t, model.Asset{Name: "Furnace", CategoryID: &hvac.ID, WarrantyExpiration: f.at(-day)})
	f.asset(t, model.Asset{Name: "Water Heater", Manufacturer: ptr("Rheem"), WarrantyExpiration: f.at(20 * day)})
	f.asset(t, model.Asset{Name: "Fridge"})

	m := NewAssetListModel(f.s.Assets, f.home.ID, discard())
	m.SetClock(f.clock)
	require.NoError(t, m.Load(ctx))

	rows, _ := m.Snapshot()
	require.Len(t, rows, 3)
	byName := map[string]model.WarrantyStatus{}
	for _, r := range rows {
		byName[r.Name] = r.Warranty
	}
	assert.Equal(t, model.WarrantyExpired, byName["Furnace"])
	assert.Equal(t, model.WarrantyExpiringSoon, byName["Water Heater"])
	assert.Equal(t, model.WarrantyUnknown, byName["Fridge"])

	m.SetFilter(AssetFilter{Query: "rheem"})
	rows, _ = m.Snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, "Water Heater", rows[0].Name)

	m.SetFilter(AssetFilter{CategoryID: &hvac.ID})
	rows, _ = m.Snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, "Furnace", rows[0].Name)

	m.SetFilter(AssetFilter{Warranty: model.WarrantyUnknown})
	rows, _ = m.Snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, "Fridge", rows[0].Name)
}

func TestMaintenanceListModel_Summary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	furnace := f.asset(t, model.Asset{Name: "Furnace"})
	fridge := f.asset(t, model.Asset{Name: "Fridge"})

	cost := func(s string) decimal.NullDecimal {
		return decimal.NewNullDecimal(decimal.RequireFromString(s))
	}
	f.record(t, model.MaintenanceRecord{AssetID: furnace.ID, Date: f.now, Type: "repair", Cost: cost("120.50")})
	f.record(t, model.MaintenanceRecord{AssetID: furnace.ID, Date: f.now, Type: "inspection"})
	f.record(t, model.MaintenanceRecord{AssetID: fridge.ID, Date: f.now, Type: "repair", Cost: cost("30.25")})

	m := NewMaintenanceListModel(f.s.Records, f.home.ID, discard())
	require.NoError(t, m.Load(ctx))

	sum, _ := m.Snapshot()
	assert.Len(t, sum.Records, 3)
	assert.Equal(t, "150.75", sum.TotalCost.String())
	assert.Equal(t, "50.25", sum.AverageCost.String())

	m.SetFilter(RecordFilter{Type: "REPAIR"})
	sum, _ = m.Snapshot()
	assert.Len(t, sum.Records, 2)

	m.SetFilter(RecordFilter{})
	m.ForAsset(&furnace.ID)
	require.NoError(t, m.Load(ctx))
	sum, _ = m.Snapshot()
	assert.Len(t, sum.Records, 2)
	assert.Equal(t, "60.25", sum.AverageCost.String(), "the record without a cost is in the denominator")
}

func TestMaintenanceListModel_Period(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	furnace := f.asset(t, model.Asset{Name: "Furnace"})
	fridge := f.asset(t, model.Asset{Name: "Fridge"})

	f.record(t, model.MaintenanceRecord{AssetID: furnace.ID, Date: f.now.Add(-40 * day), Type: "inspection"})
	f.record(t, model.MaintenanceRecord{AssetID: furnace.ID, Date: f.now.Add(-10 * day), Type: "repair"})
	f.record(t, model.MaintenanceRecord{AssetID: fridge.ID, Date: f.now.Add(-5 * day), Type: "cleaning"})
	f.record(t, model.MaintenanceRecord{AssetID: furnace.ID, Date: f.now, Type: "service"})

	m := NewMaintenanceListModel(f.s.Records, f.home.ID, discard())
	m.ForPeriod(&store.DateRange{From: f.now.Add(-30 * day), To: f.now})
	require.NoError(t, m.Load(ctx))

	sum, _ := m.Snapshot()
	assert.Equal(t, []string{"repair", "cleaning", "service"}, recordTypes(sum.Records), "oldest first, both bounds included")

	m.ForAsset(&furnace.ID)
	require.NoError(t, m.Load(ctx))
	sum, _ = m.Snapshot()
	assert.Equal(t, []string{"repair", "service"}, recordTypes(sum.Records))

	m.ForPeriod(nil)
	require.NoError(t, m.Load(ctx))
	sum, _ = m.Snapshot()
	assert.Len(t, sum.Records, 3)
}

func recordTypes(recs []model.MaintenanceRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Type
	}
	return out
}

func TestTaskListModel_ToggleComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	late := f.task(t, model.MaintenanceTask{Title: "Clean gutters", DueDate: f.at(-3 * day)})
	f.task(t, model.MaintenanceTask{Title: "Service AC", DueDate: f.at(3 * day)})

	m := NewTaskListModel(f.s.Tasks, f.home.ID, discard())
	m.SetClock(f.clock)
	require.NoError(t, m.Load(ctx))

	m.SetFilter(TaskFilter{OverdueOnly: true})
	rows, _ := m.Snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, late.ID, rows[0].ID)

	done, err := m.ToggleComplete(ctx, late.ID)
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, model.TaskStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.WithinDuration(t, f.now, *done.CompletedAt, 0)

	rows, _ = m.Snapshot()
	assert.Empty(t, rows, "completed tasks are never overdue")

	m.SetFilter(TaskFilter{Status: model.TaskStatusCompleted})
	rows, _ = m.Snapshot()
	require.Len(t, rows, 1)

	reopened, err := m.ToggleComplete(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)

	missing, err := m.ToggleComplete(ctx, 4242)
	require.NoError(t, err)
	assert.Nil(t, missing)
	_, status := m.Snapshot()
	assert.Equal(t, "Task 4242 not found", status.Message)
}

func TestProviderListModel_Query(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, p := range []model.ServiceProvider{
		{HomeID: f.home.ID, Company: "Acme Heating", Specialty: ptr("HVAC")},
		{HomeID: f.home.ID, Company: "Drip Bros", Name: ptr("Mario"), Specialty: ptr("Plumbing")},
	} {
		_, err := f.s.Providers.Create(ctx, p)
		require.NoError(t, err)
	}

	m := NewProviderListModel(f.s.Providers, f.home.ID, discard())
	require.NoError(t, m.Load(ctx))

	all, _ := m.Snapshot()
	assert.Len(t, all, 2)

	m.SetQuery("mario")
	got, _ := m.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "Drip Bros", got[0].Company)
}
