package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/homekeeper/internal/app"
	"github.com/nhle/homekeeper/internal/logging"
	"github.com/nhle/homekeeper/internal/model"
	"github.com/nhle/homekeeper/internal/theme"
)

var (
	assetSearch   string
	assetWarranty string
	assetCategory string
	assetLocation string

	newAsset struct {
		manufacturer, model, serial string
		category, location          string
		purchased, installed        string
		warranty, notes             string
	}
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List the home's assets with their warranty status",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runAssets),
}

var assetsAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add an asset",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runAssetsAdd),
}

func init() {
	assetsCmd.Flags().StringVar(&assetSearch, "search", "", "match name, manufacturer, model number or notes")
	assetsCmd.Flags().StringVar(&assetWarranty, "warranty", "",
		"only assets whose warranty is expired, expiring_soon, active or unknown")
	assetsCmd.Flags().StringVar(&assetCategory, "category", "", "only assets in this category")
	assetsCmd.Flags().StringVar(&assetLocation, "location", "", "only assets in this location")

	f := assetsAddCmd.Flags()
	f.StringVar(&newAsset.manufacturer, "manufacturer", "", "manufacturer")
	f.StringVar(&newAsset.model, "model", "", "model number")
	f.StringVar(&newAsset.serial, "serial", "", "serial number")
	f.StringVar(&newAsset.category, "category", "", "category name")
	f.StringVar(&newAsset.location, "location", "", "location name")
	f.StringVar(&newAsset.purchased, "purchased", "", "purchase date (YYYY-MM-DD)")
	f.StringVar(&newAsset.installed, "installed", "", "installation date (YYYY-MM-DD)")
	f.StringVar(&newAsset.warranty, "warranty", "", "warranty expiration date (YYYY-MM-DD)")
	f.StringVar(&newAsset.notes, "notes", "", "free-form notes")

	assetsCmd.AddCommand(assetsAddCmd)
	rootCmd.AddCommand(assetsCmd)
}

func runAssets(cmd *cobra.Command, _ []string, e *env) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	filter := app.AssetFilter{Query: assetSearch, Warranty: model.WarrantyStatus(assetWarranty)}
	switch filter.Warranty {
	case "", model.WarrantyExpired, model.WarrantyExpiringSoon, model.WarrantyActive, model.WarrantyUnknown:
	default:
		return fmt.Errorf("unknown warranty status %q", assetWarranty)
	}

	cats, err := e.store.Categories.FindByHome(ctx, e.home.ID)
	if err != nil {
		return err
	}
	catNames := make(map[int64]string, len(cats))
	for _, c := range cats {
		catNames[c.ID] = c.Name
	}
	locs, err := e.store.Locations.FindByHome(ctx, e.home.ID)
	if err != nil {
		return err
	}
	locNames := make(map[int64]string, len(locs))
	for _, l := range locs {
		locNames[l.ID] = l.Name
	}

	if assetCategory != "" {
		c, err := e.store.Categories.FindByName(ctx, e.home.ID, assetCategory)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("no category named %q", assetCategory)
		}
		filter.CategoryID = &c.ID
	}
	if assetLocation != "" {
		l, err := e.store.Locations.FindByName(ctx, e.home.ID, assetLocation)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("no location named %q", assetLocation)
		}
		filter.LocationID = &l.ID
	}

	list := app.NewAssetListModel(e.store.Assets, e.home.ID, logging.FromContext(cmd.Context()))
	if err := list.Load(ctx); err != nil {
		_, st := list.Snapshot()
		return fmt.Errorf("%s", st.Message)
	}
	list.SetFilter(filter)
	rows, _ := list.Snapshot()

	now := time.Now()
	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			lookup(catNames, r.CategoryID),
			lookup(locNames, r.LocationID),
			theme.WarrantyStyle(r.Warranty).Render(theme.WarrantyLabel(r.Warranty)),
			formatDue(r.WarrantyExpiration, now),
		}
	}

	header(out, fmt.Sprintf("Assets (%d)", len(rows)))
	renderTable(out, []string{"ID", "Name", "Category", "Location", "Warranty", "Expires"}, table,
		"no assets match")
	return nil
}

func runAssetsAdd(cmd *cobra.Command, args []string, e *env) error {
	ctx := cmd.Context()

	a := model.Asset{
		HomeID:       e.home.ID,
		Name:         args[0],
		Manufacturer: &newAsset.manufacturer,
		ModelNumber:  &newAsset.model,
		SerialNumber: &newAsset.serial,
		Notes:        newAsset.notes,
	}

	var err error
	if a.PurchaseDate, err = parseDate(newAsset.purchased); err != nil {
		return err
	}
	if a.InstallationDate, err = parseDate(newAsset.installed); err != nil {
		return err
	}
	if a.WarrantyExpiration, err = parseDate(newAsset.warranty); err != nil {
		return err
	}

	if newAsset.category != "" {
		c, err := e.store.Categories.FindByName(ctx, e.home.ID, newAsset.category)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("no category named %q", newAsset.category)
		}
		a.CategoryID = &c.ID
	}
	if newAsset.location != "" {
		l, err := e.store.Locations.FindByName(ctx, e.home.ID, newAsset.location)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("no location named %q", newAsset.location)
		}
		a.LocationID = &l.ID
	}

	created, err := e.store.Assets.Create(ctx, a)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added asset %d: %s\n", created.ID, created.Name)
	return nil
}

func lookup(names map[int64]string, id *int64) string {
	if id == nil {
		return "-"
	}
	return names[*id]
}
