package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/planner"
	"github.com/nhle/activity-planner/internal/procedure"
	"github.com/nhle/activity-planner/internal/store"
	"github.com/nhle/activity-planner/internal/theme"
)

// env is everything a command needs once flags and config are resolved.
type env struct {
	cfg    *model.AppConfig
	store  *store.SQLiteStore
	svc    *planner.Service
	out    *OutputFormatter
	logger *slog.Logger
}

// Close releases the database.
func (e *env) Close() error {
	return e.store.Close()
}

// configPath returns the --config value or the default location.
func (o *RootOptions) configPath() string {
	if o.ConfigPath != "" {
		return o.ConfigPath
	}
	return model.DefaultConfigPath()
}

// newLogger builds the stderr logger for cmd.
func (o *RootOptions) newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// clock returns the time source, pinned to --today when set.
func (o *RootOptions) clock() (func() time.Time, error) {
	if o.Today == "" {
		return time.Now, nil
	}
	d, err := caldate.Parse(o.Today)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --today", err)
	}
	// Keep the wall clock's time of day so timestamps still advance.
	return func() time.Time {
		now := time.Now().UTC()
		return d.Time().Add(now.Sub(caldate.Of(now).Time()))
	}, nil
}

// open loads config, opens the store and builds the planner service.
func (o *RootOptions) open(cmd *cobra.Command) (*env, error) {
	logger := o.newLogger(cmd)

	cfg, err := model.LoadConfig(o.configPath())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}
	if o.DBPath != "" {
		cfg.Storage.DBPath = o.DBPath
	}
	theme.Apply(cfg.Display.Theme)

	clock, err := o.clock()
	if err != nil {
		return nil, err
	}

	registry, err := procedure.LoadRegistry(cfg.Templates.Dir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading templates", err)
	}

	if cfg.Storage.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "creating database directory", err)
		}
	}
	st, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("opening %s", cfg.Storage.DBPath), err)
	}

	svc := planner.New(st, registry,
		planner.WithClock(clock),
		planner.WithLogger(logger),
		planner.WithWindows(cfg.Reminders.UpcomingDays, cfg.Reminders.ActivityWindowDays),
	)

	logger.Debug("planner ready",
		"config", o.configPath(),
		"db", cfg.Storage.DBPath,
		"templates", len(registry.All()),
		"today", svc.Today().String(),
	)

	return &env{
		cfg:    cfg,
		store:  st,
		svc:    svc,
		out:    &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()},
		logger: logger,
	}, nil
}

// withEnv wraps a command body with open/close and error formatting.
func withEnv(opts *RootOptions, run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := opts.open(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := run(cmd, args, e); err != nil {
			if e.out.JSON() {
				e.out.Error(err)
			}
			return err
		}
		return nil
	}
}
