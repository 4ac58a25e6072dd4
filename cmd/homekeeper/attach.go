package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nhle/homekeeper/internal/app"
	"github.com/nhle/homekeeper/internal/logging"
	"github.com/nhle/homekeeper/internal/model"
)

var attachFlags struct {
	asset  int64
	record int64
	typ    string
}

var attachCmd = &cobra.Command{
	Use:   "attach FILE",
	Short: "Attach a file to an asset or a maintenance record",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runAttach),
}

var detachCmd = &cobra.Command{
	Use:   "detach ID",
	Short: "Remove an attachment",
	Args:  cobra.ExactArgs(1),
	RunE:  withEnv(runDetach),
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete stored files that no attachment references",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runSweep),
}

func init() {
	attachCmd.Flags().Int64Var(&attachFlags.asset, "asset", 0, "asset id")
	attachCmd.Flags().Int64Var(&attachFlags.record, "record", 0, "maintenance record id")
	attachCmd.Flags().StringVar(&attachFlags.typ, "type", model.AttachmentOther,
		"photo, manual, receipt, warranty, invoice or other")
	attachCmd.MarkFlagsOneRequired("asset", "record")

	rootCmd.AddCommand(attachCmd, detachCmd, sweepCmd)
}

func attachments(cmd *cobra.Command, e *env) *app.AttachmentService {
	return app.NewAttachmentService(e.store.Attachments, e.files, logging.FromContext(cmd.Context()))
}

func runAttach(cmd *cobra.Command, args []string, e *env) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	in := app.NewAttachment{Type: attachFlags.typ, Filename: args[0]}
	if attachFlags.asset != 0 {
		in.AssetID = &attachFlags.asset
	}
	if attachFlags.record != 0 {
		in.MaintenanceRecordID = &attachFlags.record
	}

	att, err := attachments(cmd, e).Add(cmd.Context(), f, in)
	if err != nil {
		return err
	}
	size := uint64(0)
	if att.FileSize != nil {
		size = uint64(*att.FileSize)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Attached %s (%s, %s) as attachment %d\n",
		att.Filename, att.MimeType, humanize.IBytes(size), att.ID)
	return nil
}

func runDetach(cmd *cobra.Command, args []string, e *env) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	removed, err := attachments(cmd, e).Remove(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("attachment %d not found", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed attachment %d\n", id)
	return nil
}

func runSweep(cmd *cobra.Command, _ []string, e *env) error {
	removed, err := attachments(cmd, e).Sweep(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, p := range removed {
		muted(out, "removed "+p)
	}
	fmt.Fprintf(out, "Swept %d unreferenced files\n", len(removed))
	return nil
}
