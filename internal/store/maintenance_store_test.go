package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/homekeeper/internal/model"
)

func cost(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestRecordStore_CostRoundTripsExactly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h := mustHome(t, s, "Home")
	a := mustAsset(t, s, model.Asset{HomeID: h.ID, Name: "Furnace"})

	rec := mustRecord(t, s, model.MaintenanceRecord{
		AssetID: a.ID,
		Date:    testNow,
		Type:    model.RecordTypeRepair,
		Cost:    cost("123.45"),
	})
	noCost := mustRecord(t, s, model.MaintenanceRecord{AssetID: a.ID, Date: testNow, Type: model.RecordTypeInspection})

	got, err := s.Records.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, got.Cost.Valid)
	assert.Equal(t, "123.45", got.Cost.Decimal.String())
	assert.WithinDuration(t, testNow, got.Date, 0)

	got, err = s.Records.FindByID(ctx, noCost.ID)
	require.NoError(t, err)
	assert.False(t, got.Cost.Valid)
	assert.True(t, got.CostOrZero().IsZero())
}

func TestRecordStore_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h := mustHome(t, s, "Home")
	a := mustAsset(t, s, model.Asset{HomeID: h.ID, Name: "Furnace"})

	tests := []struct {
		name  string
		rec   model.MaintenanceRecord
		field string
	}{
		{name: "no asset", rec: model.MaintenanceRecord{Date: testNow, Type: "repair"}, field: "asset_id"},
		{name: "no type", rec: model.MaintenanceRecord{AssetID: a.ID, Date: testNow}, field: "type"},
		{name: "no date", rec: model.MaintenanceRecord{AssetID: a.ID, Type: "repair"}, field: "date"},
		{
			name:  "negative cost",
			rec:   model.MaintenanceRecord{AssetID: a.ID, Date: testNow, Type: "repair", Cost: cost("-1.00")},
			field: "cost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Records.Create(ctx, tt.rec)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestRecordStore_DateFinders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h := mustHome(t, s, "Home")
	other := mustHome(t, s, "Other")
	a := mustAsset(t, s, model.Asset{HomeID: h.ID, Name: "Furnace"})
	b := mustAsset(t, s, model.Asset{HomeID: other.ID, Name: "Boiler"})

	// One record per day, day -6 through day 0, labelled by offset.
	for i := 6; i >= 0; i-- {
		mustRecord(t, s, model.MaintenanceRecord{
			AssetID: a.ID,
			Date:    testNow.Add(-time.Duration(i) * day),
			Type:    "d" + string(rune('0'+i)),
		})
	}
	mustRecord(t, s, model.MaintenanceRecord{AssetID: b.ID, Date: testNow, Type: "elsewhere"})

	recent, err := s.Records.FindRecent(ctx, h.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"d0", "d1", "d2", "d3", "d4"}, names(recent, recordType))

	inRange, err := s.Records.FindByDateRange(ctx, h.ID, DateRange{
		From: testNow.Add(-4 * day),
		To:   testNow.Add(-2 * day),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"d4", "d3", "d2"}, names(inRange, recordType))

	byAsset, err := s.Records.FindByAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, byAsset, 7)
	assert.Equal(t, "d0", byAsset[0].Type)

	all, err := s.Records.FindByHome(ctx, h.ID)
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestRecordStore_Search(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	h := mustHome(t, s, "Home")
	a := mustAsset(t, s, model.Asset{HomeID: h.ID, Name: "Furnace"})

	mustRecord(t, s, model.MaintenanceRecord{
		AssetID: a.ID, Date: testNow, Type: model.RecordTypeRepair,
		Description: ptr("Replaced igniter"),
	})
	mustRecord(t, s, model.MaintenanceRecord{
		AssetID: a.ID, Date: testNow.Add(-day), Type: model.RecordTypeInspection,
		Notes: "igniter looked worn",
	})
	mustRecord(t, s, model.MaintenanceRecord{AssetID: a.ID, Date: testNow, Type: model.RecordTypeCleaning})

	got, err := s.Records.Search(ctx, h.ID, "IGNITER")
	require.NoError(t, err)
	assert.Equal(t, []string{"repair", "inspection"}, names(got, recordType))
}
