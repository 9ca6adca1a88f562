package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cmdpkg "github.com/berrythewa/neowatch/internal/cli/cmd"
	"github.com/berrythewa/neowatch/internal/config"
	"github.com/berrythewa/neowatch/internal/process"
	"github.com/berrythewa/neowatch/internal/storage"
	"github.com/berrythewa/neowatch/internal/terminal"
	"github.com/berrythewa/neowatch/internal/types"
	"github.com/berrythewa/neowatch/internal/watch"
	"github.com/berrythewa/neowatch/pkg/format"
	"github.com/berrythewa/neowatch/pkg/utils"
)

var (
	// The loaded configuration
	cfg *config.Config

	// Logger instance
	logger *zap.Logger

	// Version information - set by main
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "none"
)

// globalFlags apply to every command
type globalFlags struct {
	cfgFile  string
	logLevel string
	verbose  bool
}

// watchFlags are the flags of the watch command itself
type watchFlags struct {
	interval      float64
	differences   bool
	precise       bool
	errExit       bool
	chgExit       bool
	numberDiff    bool
	radix         int
	newColor      string
	changeColor   string
	increaseColor string
	decreaseColor string
	header        bool
	count         int
	noAltScreen   bool
	record        bool
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var (
		global globalFlags
		flags  watchFlags
	)

	cmd := &cobra.Command{
		Use:   "neowatch [flags] [--] <command> [args...]",
		Short: "Run a command periodically and highlight what changed",
		Long: `neowatch runs a command repeatedly, showing its output full screen.

With --differences, words that changed since the previous run are colored;
with --number-diff, numbers that went up or down get their own colors.

Flags must come before the command. Use -- when the command has the same
name as a neowatch subcommand.`,
		Example: `  neowatch -n 0.5 -d date
  neowatch -d -N -- cat /proc/loadavg
  neowatch -g -e curl -s http://localhost:8080/health`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(&global)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return types.NewInvalidArgs("no command given; see 'neowatch --help'")
			}
			if err := applyFlags(cmd, cfg, &flags); err != nil {
				return err
			}
			opts, err := buildOptions(cfg, &flags, args)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), opts)
		},
	}

	cmd.Flags().SetInterspersed(false)

	cmd.PersistentFlags().StringVar(&global.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/neowatch/config.yaml)")
	cmd.PersistentFlags().StringVar(&global.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&global.verbose, "verbose", false, "log at debug level")

	bindWatchFlags(cmd, &flags)
	registerCommands(cmd)
	return cmd
}

// bindWatchFlags registers the watch flags on cmd
func bindWatchFlags(cmd *cobra.Command, flags *watchFlags) {
	f := cmd.Flags()
	f.Float64VarP(&flags.interval, "interval", "n", 1.0, "seconds to wait between updates")
	f.BoolVarP(&flags.differences, "differences", "d", false, "highlight changes between updates")
	f.BoolVarP(&flags.precise, "precise", "p", false, "attempt to run the command every interval, not interval after it finished")
	f.BoolVarP(&flags.errExit, "errexit", "e", false, "exit when the command returns a non-zero status")
	f.BoolVarP(&flags.chgExit, "chgexit", "g", false, "exit when the output of the command changes")
	f.BoolVarP(&flags.numberDiff, "number-diff", "N", false, "color numbers by whether they increased or decreased")
	f.IntVarP(&flags.radix, "radix", "r", 10, "radix used to compare numbers (2-36)")
	f.StringVar(&flags.newColor, "new-color", format.DefaultNewColor, "color of new words")
	f.StringVar(&flags.changeColor, "change-color", format.DefaultChangeColor, "color of changed words")
	f.StringVar(&flags.increaseColor, "increase-color", format.DefaultIncreaseColor, "color of numbers that increased")
	f.StringVar(&flags.decreaseColor, "decrease-color", format.DefaultDecreaseColor, "color of numbers that decreased")
	f.BoolVarP(&flags.header, "header", "t", false, "show a title line with the interval, command, host and time")
	f.IntVarP(&flags.count, "count", "c", 0, "stop after this many updates (0 for no limit)")
	f.BoolVar(&flags.noAltScreen, "no-alt-screen", false, "draw on the main screen instead of the alternate screen")
	f.BoolVar(&flags.record, "record", false, "record frames to the history database")
}

// setup loads the configuration and builds the logger shared by all commands
func setup(global *globalFlags) error {
	var err error

	cfg, err = config.Load(global.cfgFile)
	if err != nil {
		if types.IsKind(err, types.InvalidArgs) {
			return err
		}
		return types.NewInvalidArgs("failed to load config: %v", err)
	}
	if global.logLevel != "" {
		cfg.Log.Level = global.logLevel
	}

	paths, err := config.GetConfigPaths()
	if err != nil {
		return types.NewIo(err)
	}
	if cfg.Log.Output == config.OutputFile {
		if err := paths.EnsureDirs(); err != nil {
			return types.NewIo(err)
		}
	}

	logger, err = cmdpkg.SetupLogger(cfg, paths, global.verbose)
	if err != nil {
		return types.NewIo(fmt.Errorf("failed to initialize logger: %w", err))
	}

	logger.Debug("Configuration loaded",
		zap.String("config_file", global.cfgFile),
		zap.Duration("interval", cfg.Interval),
		zap.String("log_level", cfg.Log.Level),
		zap.String("data_dir", paths.DataDir))

	cmdpkg.SetConfig(cfg)
	cmdpkg.SetPaths(paths)
	cmdpkg.SetZapLogger(logger)
	return nil
}

// applyFlags copies explicitly set flags over the configuration
func applyFlags(cmd *cobra.Command, c *config.Config, flags *watchFlags) error {
	changed := cmd.Flags().Changed

	if changed("interval") {
		d, err := config.SecondsToDuration(flags.interval)
		if err != nil {
			return err
		}
		c.Interval = d
	}
	if changed("differences") {
		c.Differences = flags.differences
	}
	if changed("precise") {
		c.Precise = flags.precise
	}
	if changed("errexit") {
		c.ErrExit = flags.errExit
	}
	if changed("chgexit") {
		c.ChgExit = flags.chgExit
	}
	if changed("number-diff") {
		c.NumberDiff = flags.numberDiff
	}
	if changed("radix") {
		c.Radix = flags.radix
	}
	if changed("new-color") {
		c.Colors.New = flags.newColor
	}
	if changed("change-color") {
		c.Colors.Change = flags.changeColor
	}
	if changed("increase-color") {
		c.Colors.Increase = flags.increaseColor
	}
	if changed("decrease-color") {
		c.Colors.Decrease = flags.decreaseColor
	}
	if changed("header") {
		c.Header = flags.header
	}
	if changed("no-alt-screen") {
		c.AltScreen = !flags.noAltScreen
	}
	if changed("record") {
		c.Record.Enabled = flags.record
	}
	return nil
}

// buildOptions turns the merged configuration into watch options
func buildOptions(c *config.Config, flags *watchFlags, args []string) (watch.Options, error) {
	if err := c.Validate(); err != nil {
		return watch.Options{}, err
	}
	palette, err := c.Palette()
	if err != nil {
		return watch.Options{}, types.NewInvalidArgs("%v", err)
	}

	opts := watch.Options{
		Interval:     c.Interval,
		ShowDiff:     c.Differences,
		Precise:      c.Precise,
		ExitOnError:  c.ErrExit,
		ExitOnChange: c.ChgExit,
		NumberDiff:   c.NumberDiff,
		Radix:        c.Radix,
		Palette:      palette,
		Command:      args[0],
		Args:         args[1:],
		Header:       c.Header,
		Count:        flags.count,
	}
	return opts, opts.Validate()
}

// runWatch owns the terminal for the duration of the loop
func runWatch(parent context.Context, opts watch.Options) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	term := terminal.New(os.Stdout, cfg.AltScreen)
	options := []watch.Option{watch.WithWidth(term.Width)}

	if cfg.Record.Enabled {
		store, err := storage.NewBoltStorage(storage.StorageConfig{
			DBPath:       recordPath(),
			KeepSessions: cfg.Record.KeepSessions,
			Compress:     cfg.Record.Compress,
			Logger:       logger,
		})
		if err != nil {
			// Recording is best effort
			logger.Warn("Recording disabled", zap.Error(err))
		} else {
			defer store.Close()
			session, err := store.StartSession(utils.CommandLine(opts.Command, opts.Args))
			if err != nil {
				logger.Warn("Recording disabled", zap.Error(err))
			} else {
				options = append(options, watch.WithRecorder(session))
			}
		}
	}

	if err := term.Enter(); err != nil {
		return types.NewIo(err)
	}
	defer term.Restore()

	supervisor := watch.NewSupervisor(opts, process.NewRunner(), term, logger, options...)
	err := supervisor.Run(ctx)

	logger.Info("Watch stopped", zap.Int("exit_code", types.ExitCode(err)))
	return err
}

func recordPath() string {
	if cfg.Record.DBPath != "" {
		return cfg.Record.DBPath
	}
	return cmdpkg.GetPaths().DBFile
}

// Execute runs the root command and exits with the code its error maps to
func Execute() {
	err := RootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "neowatch: %v\n", err)
		os.Exit(types.ExitCode(err))
	}
}

// SetVersionInfo sets the version information used by the version command
func SetVersionInfo(version, buildTime, commit string) {
	Version = version
	BuildTime = buildTime
	Commit = commit
	cmdpkg.SetVersionInfo(version, buildTime, commit)
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	RootCmd.AddCommand(cmd)
}
