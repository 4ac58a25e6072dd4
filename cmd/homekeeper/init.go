package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/homekeeper/internal/model"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config, create the database and seed defaults",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		cfg, err := model.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := model.SaveConfig(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote config to %s\n", configPath)
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	fmt.Fprintf(out, "Database ready at %s\n", e.cfg.Database.Path)
	fmt.Fprintf(out, "Attachments stored in %s\n", e.files.Root())
	fmt.Fprintf(out, "Default home: %s (id %d)\n", e.home.Name, e.home.ID)
	return nil
}
