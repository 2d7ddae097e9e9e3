package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/balkashynov/wrkout/internal/config"
	"github.com/balkashynov/wrkout/internal/db"
	"github.com/balkashynov/wrkout/internal/goals"
	"github.com/balkashynov/wrkout/internal/logging"
	"github.com/balkashynov/wrkout/internal/store"
	"github.com/balkashynov/wrkout/internal/tracker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wrkout",
		Short: "A CLI workout tracker",
		Long: `wrkout tracks workout sessions from the terminal.
Start, pause, resume and stop workouts, review your history and weekly totals,
and set goals that completed workouts count toward.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.wrkout/config.yaml)")

	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newPauseCmd())
	rootCmd.AddCommand(newResumeCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newGoalCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newHelpCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// app holds everything a command needs, built per invocation
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	sessions *store.SessionStore
	goals    *goals.Service
	manager  *tracker.Manager
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")

	v := viper.New()
	if err := config.Setup(v, cfgFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	logDir := ""
	if cfg.Logging.ToFile {
		logDir = cfg.Paths.DataDir
	}
	logger, err := logging.NewLogger(logDir, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logger = logger.With("command", cmd.Name())

	if err := db.Initialize(cfg.Paths.DatabasePath()); err != nil {
		logger.Close()
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		sessions: store.NewSessionStore(db.NewStorage(db.DB), logger),
		goals:    goals.NewService(db.DB, logger),
	}

	opts := []tracker.Option{
		tracker.WithLogger(logger),
		tracker.WithTicker(tracker.NewIntervalTicker(cfg.Tracker.TickInterval())),
	}
	if cfg.Goals.Enabled {
		opts = append(opts, tracker.WithGoals(a.goals))
	}
	a.manager = tracker.NewManager(a.sessions, opts...)

	if _, _, err := a.manager.Restore(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to restore workout: %w", err)
	}

	logger.Debug("app ready", "data_dir", cfg.Paths.DataDir, "db", filepath.Base(cfg.Paths.DatabasePath()))
	return a, nil
}

// close waits for background goal updates before releasing the database
func (a *app) close() {
	a.manager.Close()
	if err := db.Close(); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}
	a.logger.Close()
}

// withApp wraps a command function so it runs with an initialized app
func withApp(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.close()

		return fn(ctx, a, cmd, args)
	}
}
