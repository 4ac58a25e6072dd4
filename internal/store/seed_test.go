package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/homekeeper/internal/model"
)

func TestSeed_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cfg := model.DefaultSeed()

	home, created, err := s.Seed(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "My Home", home.Name)

	again, created, err := s.Seed(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, home.ID, again.ID)

	homes, err := s.Homes.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, homes)

	cats, err := s.Categories.FindByHome(ctx, home.ID)
	require.NoError(t, err)
	assert.Len(t, cats, len(cfg.Categories))

	locs, err := s.Locations.FindByHome(ctx, home.ID)
	require.NoError(t, err)
	assert.Len(t, locs, len(cfg.Locations))
	assert.Equal(t, "Basement", locs[0].Name)
	assert.Equal(t, "Yard", locs[len(locs)-1].Name)
}

func TestSeed_InvalidEntryRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cfg := model.DefaultSeed()
	cfg.Categories = append(cfg.Categories, model.SeedCategory{Name: " "})

	_, _, err := s.Seed(ctx, cfg)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	n, err := s.Homes.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResetAllData(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	home, _, err := s.Seed(ctx, model.DefaultSeed())
	require.NoError(t, err)
	a := mustAsset(t, s, model.Asset{HomeID: home.ID, Name: "Furnace"})
	rec := mustRecord(t, s, model.MaintenanceRecord{AssetID: a.ID, Date: testNow, Type: "repair"})
	mustTask(t, s, model.MaintenanceTask{Title: "general"})
	_, err = s.Attachments.Create(ctx, model.Attachment{
		MaintenanceRecordID: &rec.ID, Filename: "r.pdf", RelativePath: "aa/r.pdf",
	})
	require.NoError(t, err)

	require.NoError(t, s.ResetAllData(ctx))

	for name, count := range map[string]func(context.Context) (int, error){
		"homes":       s.Homes.Count,
		"categories":  s.Categories.Count,
		"locations":   s.Locations.Count,
		"assets":      s.Assets.Count,
		"records":     s.Records.Count,
		"tasks":       s.Tasks.Count,
		"attachments": s.Attachments.Count,
	} {
		n, err := count(ctx)
		require.NoError(t, err, name)
		assert.Zero(t, n, name)
	}

	applied, err := s.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, len(migrations), "reset keeps the schema")

	again, created, err := s.Seed(ctx, model.DefaultSeed())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), again.ID)
}
