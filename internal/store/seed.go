package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/nhle/homekeeper/internal/model"
)

// resetOrder lists tables children first so deletes never trip a
// foreign key.
var resetOrder = []string{
	"attachments",
	"maintenance_tasks",
	"maintenance_records",
	"service_providers",
	"assets",
	"locations",
	"categories",
	"homes",
}

// Seed creates the default home with its categories and locations when the
// database has no home yet. It returns the default home and whether it was
// created by this call. Running it again is a no-op.
func (s *SQLiteStore) Seed(ctx context.Context, cfg model.SeedConfig) (*model.Home, bool, error) {
	var (
		home    *model.Home
		created bool
	)

	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n, "SELECT COUNT(*) FROM homes"); err != nil {
			return storageErr("counting homes", err)
		}
		if n > 0 {
			var h model.Home
			if err := tx.GetContext(ctx, &h, "SELECT * FROM homes ORDER BY id LIMIT 1"); err != nil {
				return storageErr("loading default home", err)
			}
			home = &h
			return nil
		}

		name := cfg.HomeName
		if name == "" {
			name = model.DefaultSeed().HomeName
		}
		h, err := s.Homes.create(ctx, tx, model.Home{Name: name})
		if err != nil {
			return fmt.Errorf("seeding home: %w", err)
		}

		for _, c := range cfg.Categories {
			if _, err := s.Categories.create(ctx, tx, model.Category{
				HomeID: h.ID,
				Name:   c.Name,
				Icon:   c.Icon,
			}); err != nil {
				return fmt.Errorf("seeding category %q: %w", c.Name, err)
			}
		}
		for _, l := range cfg.Locations {
			if _, err := s.Locations.create(ctx, tx, model.Location{
				HomeID: h.ID,
				Name:   l.Name,
				Floor:  l.Floor,
			}); err != nil {
				return fmt.Errorf("seeding location %q: %w", l.Name, err)
			}
		}

		home = &h
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.log.WithFields(logrus.Fields{
			"home_id":    home.ID,
			"categories": len(cfg.Categories),
			"locations":  len(cfg.Locations),
		}).Info("seeded default home")
	}
	return home, created, nil
}

// ResetAllData deletes every row in one transaction, restarts id sequences
// and compacts the database file. The schema and migration ledger are kept.
func (s *SQLiteStore) ResetAllData(ctx context.Context) error {
	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, name := range resetOrder {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+name); err != nil {
				return storageErr("clearing "+name, err)
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence"); err != nil {
			return storageErr("resetting id sequences", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// VACUUM cannot run inside a transaction.
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return storageErr("vacuuming database", err)
	}

	s.log.Warn("all data reset")
	return nil
}
