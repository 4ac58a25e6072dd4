package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/homekeeper/internal/app"
	"github.com/nhle/homekeeper/internal/logging"
	"github.com/nhle/homekeeper/internal/model"
	"github.com/nhle/homekeeper/internal/theme"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarize assets, recent work, due tasks and expiring warranties",
	RunE:  withEnv(runDashboard),
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string, e *env) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	log := logging.FromContext(ctx)

	pool := app.NewWorkerPool(e.cfg.Workers.Size, log)
	pool.Start(ctx)
	defer pool.Stop()

	dash := app.NewDashboardModel(app.DashboardSourceFrom(e.store), e.home.ID, e.cfg.Dashboard, log)
	assets := app.NewAssetListModel(e.store.Assets, e.home.ID, log)

	dashDone := app.Refresh(ctx, pool, dash)
	assetsDone := app.Refresh(ctx, pool, assets)
	if err := errors.Join(<-dashDone, <-assetsDone); err != nil {
		_, st := dash.Snapshot()
		if st.Message == "" {
			_, st = assets.Snapshot()
		}
		return errors.New(st.Message)
	}

	d, _ := dash.Snapshot()
	rows, _ := assets.Snapshot()
	names := make(map[int64]string, len(rows))
	for _, r := range rows {
		names[r.ID] = r.Name
	}

	header(out, e.home.Name)
	overdue := theme.PanelStyle.Render(fmt.Sprintf("Overdue\n%d", len(d.OverdueTasks)))
	if len(d.OverdueTasks) > 0 {
		overdue = theme.PanelStyle.BorderForeground(theme.ColorRed).
			Render(fmt.Sprintf("Overdue\n%d", len(d.OverdueTasks)))
	}
	fmt.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top,
		theme.PanelStyle.Render(fmt.Sprintf("Assets\n%d", d.AssetCount)),
		theme.PanelStyle.Render(fmt.Sprintf("Due soon\n%d", len(d.UpcomingTasks))),
		overdue,
		theme.PanelStyle.Render(fmt.Sprintf("Warranties ending\n%d", len(d.ExpiringWarranties))),
	))

	section(out, "Overdue tasks")
	printTasks(out, d.OverdueTasks, names, d.GeneratedAt, "nothing overdue")

	section(out, fmt.Sprintf("Due in the next %d days", e.cfg.Dashboard.WindowDays))
	printTasks(out, d.UpcomingTasks, names, d.GeneratedAt, "nothing due")

	section(out, "Recent maintenance")
	recs := make([][]string, len(d.RecentRecords))
	for i, r := range d.RecentRecords {
		recs[i] = []string{formatDate(&r.Date), names[r.AssetID], r.Type, costCell(r)}
	}
	renderTable(out, []string{"Date", "Asset", "Type", "Cost"}, recs, "no maintenance recorded yet")

	section(out, "Warranties expiring soon")
	warr := make([][]string, len(d.ExpiringWarranties))
	for i, a := range d.ExpiringWarranties {
		warr[i] = []string{strconv.FormatInt(a.ID, 10), a.Name, formatDue(a.WarrantyExpiration, d.GeneratedAt)}
	}
	renderTable(out, []string{"ID", "Asset", "Expires"}, warr, "no warranties ending soon")
	return nil
}

func printTasks(w io.Writer, tasks []model.MaintenanceTask, assets map[int64]string, now time.Time, hint string) {
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		asset := "-"
		if t.AssetID != nil {
			asset = assets[*t.AssetID]
		}
		rows[i] = []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			asset,
			formatDue(t.DueDate, now),
			theme.PriorityStyle(optional(t.Priority)).Render(optional(t.Priority)),
		}
	}
	renderTable(w, []string{"ID", "Task", "Asset", "Due", "Priority"}, rows, hint)
}

func costCell(r model.MaintenanceRecord) string {
	if !r.Cost.Valid {
		return "-"
	}
	return formatMoney(r.Cost.Decimal)
}
