package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nhle/homekeeper/internal/filestore"
	"github.com/nhle/homekeeper/internal/logging"
	"github.com/nhle/homekeeper/internal/model"
	"github.com/nhle/homekeeper/internal/store"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "homekeeper",
	Short: "Track home assets, maintenance history and warranties",
	Long: `homekeeper keeps an inventory of the equipment in your home, the work done
on it, upcoming maintenance tasks and warranty dates in a local SQLite database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(),
		"path to the config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"database path (overrides database.path)")
}

// env is everything a command needs, opened from configuration. The
// logger travels on the command's context.
type env struct {
	cfg   *model.AppConfig
	store *store.SQLiteStore
	files *filestore.Store
	home  *model.Home
}

// openEnv loads configuration, migrates the database and makes sure the
// default home exists. The configured logger is attached to cmd's context.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, err
	}
	ctx := logging.WithLogger(cmd.Context(), log)
	cmd.SetContext(ctx)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	st, err := store.NewSQLiteStore(cfg.Database.Path, log)
	if err != nil {
		return nil, err
	}

	home, _, err := st.Seed(ctx, cfg.Seed)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("seeding defaults: %w", err)
	}

	files, err := filestore.NewOS(cfg.Storage.Root, cfg.Storage.MaxFileSizeBytes(), log)
	if err != nil {
		st.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"command": cmd.CommandPath(),
		"db":      cfg.Database.Path,
		"home_id": home.ID,
	}).Debug("environment ready")

	return &env{cfg: cfg, store: st, files: files, home: home}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// withEnv adapts a command body that needs an open environment.
func withEnv(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		err = run(cmd, args, e)
		var se *store.StorageError
		if errors.As(err, &se) {
			logging.FromContext(cmd.Context()).WithError(se.Err).
				WithFields(logrus.Fields{"command": cmd.CommandPath(), "op": se.Op}).
				Error("storage failure")
		}
		return err
	}
}
