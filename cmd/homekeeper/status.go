package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nhle/homekeeper/internal/theme"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema version, row counts and attachment storage use",
	RunE:  withEnv(runStatus),
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string, e *env) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	header(out, "homekeeper status")
	fmt.Fprintf(out, "config:      %s\n", configPath)
	fmt.Fprintf(out, "database:    %s\n", e.cfg.Database.Path)
	fmt.Fprintf(out, "attachments: %s\n", e.files.Root())

	applied, err := e.store.AppliedMigrations(ctx)
	if err != nil {
		return err
	}
	section(out, "Migrations")
	rows := make([][]string, len(applied))
	for i, m := range applied {
		rows[i] = []string{strconv.Itoa(m.Version), m.Name, humanize.Time(m.AppliedAt)}
	}
	renderTable(out, []string{"Version", "Name", "Applied"}, rows, "no migrations applied")

	counters := []struct {
		name  string
		count func(context.Context) (int, error)
	}{
		{"homes", e.store.Homes.Count},
		{"categories", e.store.Categories.Count},
		{"locations", e.store.Locations.Count},
		{"assets", e.store.Assets.Count},
		{"service providers", e.store.Providers.Count},
		{"maintenance records", e.store.Records.Count},
		{"maintenance tasks", e.store.Tasks.Count},
		{"attachments", e.store.Attachments.Count},
	}
	section(out, "Rows")
	rows = rows[:0]
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return err
		}
		rows = append(rows, []string{c.name, humanize.Comma(int64(n))})
	}
	renderTable(out, []string{"Table", "Rows"}, rows, "")

	blobs, size, err := e.files.Usage()
	if err != nil {
		return err
	}
	section(out, "Attachment storage")
	fmt.Fprintf(out, "%d files, %s\n", blobs, humanize.IBytes(uint64(size)))

	missing, err := attachments(cmd, e).Missing(ctx)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		fmt.Fprintln(out, theme.ErrorStyle.Render(fmt.Sprintf("%d referenced files are missing", len(missing))))
		for _, p := range missing {
			muted(out, p)
		}
	}
	return nil
}
