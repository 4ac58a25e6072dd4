package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/nhle/homekeeper/internal/app"
	"github.com/nhle/homekeeper/internal/logging"
	"github.com/nhle/homekeeper/internal/model"
	"github.com/nhle/homekeeper/internal/store"
)

var (
	recordAsset int64
	recordType  string
	recordQuery string
	recordFrom  string
	recordTo    string

	newRecord struct {
		date, typ, cost    string
		provider           int64
		description, notes string
	}
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List maintenance history with total and average cost",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runRecords),
}

var recordsAddCmd = &cobra.Command{
	Use:   "add ASSET_ID",
	Short: "Record maintenance done on an asset",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runRecordsAdd),
}

func init() {
	recordsCmd.Flags().Int64Var(&recordAsset, "asset", 0, "only records for this asset id")
	recordsCmd.Flags().StringVar(&recordType, "type", "", "only records of this type")
	recordsCmd.Flags().StringVar(&recordQuery, "search", "", "match type, description or notes")
	recordsCmd.Flags().StringVar(&recordFrom, "from", "", "only records on or after this date (YYYY-MM-DD)")
	recordsCmd.Flags().StringVar(&recordTo, "to", "", "only records on or before this date (YYYY-MM-DD)")

	f := recordsAddCmd.Flags()
	f.StringVar(&newRecord.date, "date", "", "date of the work (YYYY-MM-DD, default today)")
	f.StringVar(&newRecord.typ, "type", model.RecordTypeService,
		"repair, service, inspection, replacement, installation or cleaning")
	f.StringVar(&newRecord.cost, "cost", "", "amount paid, e.g. 149.99")
	f.Int64Var(&newRecord.provider, "provider", 0, "service provider id")
	f.StringVar(&newRecord.description, "description", "", "what was done")
	f.StringVar(&newRecord.notes, "notes", "", "free-form notes")

	recordsCmd.AddCommand(recordsAddCmd)
	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, _ []string, e *env) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	list := app.NewMaintenanceListModel(e.store.Records, e.home.ID, logging.FromContext(cmd.Context()))
	if recordAsset != 0 {
		list.ForAsset(&recordAsset)
	}
	period, err := recordPeriod(recordFrom, recordTo)
	if err != nil {
		return err
	}
	list.ForPeriod(period)
	if err := list.Load(ctx); err != nil {
		_, st := list.Snapshot()
		return fmt.Errorf("%s", st.Message)
	}
	list.SetFilter(app.RecordFilter{Query: recordQuery, Type: recordType})
	sum, _ := list.Snapshot()

	assets, err := e.store.Assets.FindByHome(ctx, e.home.ID)
	if err != nil {
		return err
	}
	assetNames := make(map[int64]string, len(assets))
	for _, a := range assets {
		assetNames[a.ID] = a.Name
	}
	providers, err := e.store.Providers.FindByHome(ctx, e.home.ID)
	if err != nil {
		return err
	}
	providerNames := make(map[int64]string, len(providers))
	for _, p := range providers {
		providerNames[p.ID] = p.Company
	}

	rows := make([][]string, len(sum.Records))
	for i, r := range sum.Records {
		rows[i] = []string{
			formatDate(&r.Date),
			assetNames[r.AssetID],
			r.Type,
			lookup(providerNames, r.ServiceProviderID),
			optional(r.Description),
			costCell(r),
		}
	}

	header(out, fmt.Sprintf("Maintenance records (%d)", len(sum.Records)))
	renderTable(out, []string{"Date", "Asset", "Type", "Provider", "Description", "Cost"}, rows,
		"no maintenance recorded")
	if len(sum.Records) > 0 {
		fmt.Fprintf(out, "Total %s, average %s per record\n",
			formatMoney(sum.TotalCost), formatMoney(sum.AverageCost))
	}
	return nil
}

func runRecordsAdd(cmd *cobra.Command, args []string, e *env) error {
	assetID, err := parseID(args[0])
	if err != nil {
		return err
	}

	date := time.Now()
	if d, err := parseDate(newRecord.date); err != nil {
		return err
	} else if d != nil {
		date = *d
	}

	r := model.MaintenanceRecord{
		AssetID:     assetID,
		Date:        date,
		Type:        newRecord.typ,
		Description: &newRecord.description,
		Notes:       newRecord.notes,
	}
	if newRecord.cost != "" {
		c, err := decimal.NewFromString(newRecord.cost)
		if err != nil {
			return fmt.Errorf("invalid cost %q", newRecord.cost)
		}
		r.Cost = decimal.NewNullDecimal(c)
	}
	if newRecord.provider != 0 {
		r.ServiceProviderID = &newRecord.provider
	}

	created, err := e.store.Records.Create(cmd.Context(), r)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s on asset %d (record %d)\n", created.Type, assetID, created.ID)
	return nil
}

// recordPeriod turns --from/--to into a range covering whole days. It is
// nil when neither is set; an open end is unbounded.
func recordPeriod(from, to string) (*store.DateRange, error) {
	start, err := parseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(to)
	if err != nil {
		return nil, err
	}
	if start == nil && end == nil {
		return nil, nil
	}

	r := store.DateRange{From: time.Time{}, To: time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)}
	if start != nil {
		r.From = *start
	}
	if end != nil {
		r.To = end.AddDate(0, 0, 1).Add(-time.Second)
	}
	if r.To.Before(r.From) {
		return nil, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return &r, nil
}
