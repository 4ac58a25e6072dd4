package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and stored files, keeping the schema",
	Long: `Delete every home, asset, record, task, provider and attachment.
Without --yes the command asks for confirmation on a terminal and refuses
otherwise.`,
	Args: cobra.NoArgs,
	RunE: withEnv(runReset),
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deleting everything")
	rootCmd.AddCommand(resetCmd)
}

// confirmReset asks before a reset that was not confirmed with --yes.
// It answers no when stdin is not a terminal.
var confirmReset = func(cmd *cobra.Command) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false, nil
	}

	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete all data?").
				Description("Every home, asset, record, task and attachment will be removed.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&ok),
		),
	).WithOutput(cmd.ErrOrStderr()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func runReset(cmd *cobra.Command, _ []string, e *env) error {
	if !resetYes {
		ok, err := confirmReset(cmd)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("refusing to delete all data without --yes")
		}
	}

	ctx := cmd.Context()
	if err := e.store.ResetAllData(ctx); err != nil {
		return err
	}
	removed, err := attachments(cmd, e).Sweep(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "All data deleted (%d files removed)\n", len(removed))
	return nil
}
