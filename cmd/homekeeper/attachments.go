package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nhle/homekeeper/internal/app"
)

var listAttach struct {
	asset  int64
	record int64
	typ    string
}

var attachmentsCmd = &cobra.Command{
	Use:   "attachments",
	Short: "List attachments by asset, record or type",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runAttachments),
}

var attachmentsExportCmd = &cobra.Command{
	Use:   "export ID DEST",
	Short: "Copy an attachment's file to DEST (a file or directory)",
	Args:  cobra.ExactArgs(2),
	RunE:  withEnv(runAttachmentsExport),
}

func init() {
	f := attachmentsCmd.Flags()
	f.Int64Var(&listAttach.asset, "asset", 0, "only this asset's attachments")
	f.Int64Var(&listAttach.record, "record", 0, "only this maintenance record's attachments")
	f.StringVar(&listAttach.typ, "type", "", "only attachments of this type")
	attachmentsCmd.MarkFlagsMutuallyExclusive("asset", "record")

	attachmentsCmd.AddCommand(attachmentsExportCmd)
	rootCmd.AddCommand(attachmentsCmd)
}

func runAttachments(cmd *cobra.Command, _ []string, e *env) error {
	filter := app.AttachmentFilter{Type: listAttach.typ}
	if listAttach.asset != 0 {
		filter.AssetID = &listAttach.asset
	}
	if listAttach.record != 0 {
		filter.MaintenanceRecordID = &listAttach.record
	}

	atts, err := attachments(cmd, e).List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	rows := make([][]string, len(atts))
	for i, a := range atts {
		owner := "-"
		switch {
		case a.AssetID != nil:
			owner = "asset " + strconv.FormatInt(*a.AssetID, 10)
		case a.MaintenanceRecordID != nil:
			owner = "record " + strconv.FormatInt(*a.MaintenanceRecordID, 10)
		}
		size := "-"
		if a.FileSize != nil {
			size = humanize.IBytes(uint64(*a.FileSize))
		}
		rows[i] = []string{strconv.FormatInt(a.ID, 10), a.Filename, a.Type, owner, size, formatDate(&a.CreatedAt)}
	}

	out := cmd.OutOrStdout()
	header(out, fmt.Sprintf("Attachments (%d)", len(atts)))
	renderTable(out, []string{"ID", "File", "Type", "Attached to", "Size", "Added"}, rows, "no attachments")
	return nil
}

func runAttachmentsExport(cmd *cobra.Command, args []string, e *env) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	att, src, err := attachments(cmd, e).Open(cmd.Context(), id)
	if err != nil {
		return err
	}
	if att == nil {
		return fmt.Errorf("attachment %d not found", id)
	}
	defer src.Close()

	dest := args[1]
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, att.Filename)
	}
	dst, err := os.Create(dest)
	if err != nil {
		return err
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported attachment %d to %s (%s)\n", att.ID, dest, humanize.IBytes(uint64(n)))
	return nil
}
