// Package commands implements the CLI commands for dmsync.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paulissoft/sync-datamodeler-config/cmd"
	"github.com/paulissoft/sync-datamodeler-config/internal/config"
	"github.com/paulissoft/sync-datamodeler-config/internal/errors"
	"github.com/paulissoft/sync-datamodeler-config/internal/logging"
	"github.com/paulissoft/sync-datamodeler-config/internal/modeler"
	"github.com/paulissoft/sync-datamodeler-config/internal/sync"
)

// Sync surface flags, local to the root command.
var (
	backupFlag    bool
	restoreFlag   bool
	configDir     string
	configVersion string
)

// Ambient persistent flags.
var (
	verbosity int
	quiet     bool
	logFormat string
	logFile   string
)

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Flags().BoolVar(&backupFlag, "backup", false,
		"copy configuration from the installation into the archive")
	rootCmd.Flags().BoolVar(&restoreFlag, "restore", false,
		"copy configuration from the archive back into the installation")
	rootCmd.Flags().StringVar(&configDir, "config-directory", "",
		"archive base directory (must exist and be writable)")
	rootCmd.Flags().StringVar(&configVersion, "config-version", "",
		"override the version subdirectory name in the archive")
	rootCmd.MarkFlagsMutuallyExclusive("backup", "restore")
	rootCmd.MarkFlagsOneRequired("backup", "restore")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("dmsync version {{.Version}}\n")

	// Silence errors and usage so we can control error output.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	_, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "dmsync [flags] [installation-root ...]",
	Short: "Back up and restore Oracle SQL Developer Data Modeler configuration",
	Long: `dmsync synchronizes the global configuration of Oracle SQL Developer
Data Modeler between installations and a version-labeled archive
directory.

For each installation root it reads the product version, then copies the
installation's types directory and the per-user system directory into
<config-directory>/<version>/ (backup) or back out of it (restore).
After a backup the archive is pruned down to .xml files and cache
directories are removed.

Installation roots may contain shell-style glob patterns; on macOS the
root is fixed by the application bundle and must be omitted.`,
	Example: `  # Back up two installations
  dmsync --backup --config-directory ~/dm-backups /opt/datamodeler-*

  # Restore the configuration matching the installed version
  dmsync --restore --config-directory ~/dm-backups /opt/datamodeler

  # Back up under an explicit version label
  dmsync --backup --config-version 18.4-custom --config-directory ~/dm-backups /opt/datamodeler

  See Also: dmsync list, dmsync prune, dmsync init, dmsync doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfigLoad(cmd)
	},
	RunE: runSync,
}

func runSync(cobraCmd *cobra.Command, args []string) error {
	mode := sync.ModeBackup
	if restoreFlag {
		mode = sync.ModeRestore
	}

	archiveDir, err := resolveArchiveDir(configDir)
	if err != nil {
		return err
	}
	if err := validateArchiveDir(archiveDir); err != nil {
		return err
	}

	logger := logging.FromContext(cobraCmd.Context())
	roots, err := resolveRoots(runtime.GOOS, args, logger)
	if err != nil {
		return err
	}

	engine := sync.New(logger)
	results := engine.Run(sync.RunConfig{
		Roots:           roots,
		Mode:            mode,
		ArchiveDir:      archiveDir,
		VersionOverride: configVersion,
		ToolVersion:     cmd.Version,
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return errors.NewSystemError(
			errors.Newf("%s failed for %d of %d installation root(s)", mode, failed, len(results)),
			"Run with -v for per-root details")
	}
	return nil
}

// resolveArchiveDir applies the flag > environment > config file
// precedence for the archive base directory.
func resolveArchiveDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if dir := viper.GetString("config_directory"); dir != "" {
		return dir, nil
	}
	return "", errors.NewUserError(
		errors.New("no archive directory given"),
		"Pass --config-directory, set DMSYNC_CONFIG_DIRECTORY, or run 'dmsync init'")
}

// validateArchiveDir checks the archive base pre-exists, is a directory,
// and is writable, before any engine work starts.
func validateArchiveDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.NewUserError(
			errors.Wrapf(err, "archive directory %s", dir),
			"Create the directory first, or run 'dmsync init' to set up the default location")
	}
	if !info.IsDir() {
		return errors.NewUserError(errors.Newf("%s is not a directory", dir), "")
	}

	probe, err := os.CreateTemp(dir, ".dmsync-probe-*")
	if err != nil {
		return errors.NewUserError(
			errors.Wrapf(err, "archive directory %s is not writable", dir), "")
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	return nil
}

// resolveRoots expands the positional arguments into installation roots.
// On platforms with a fixed installation location the arguments must be
// empty and the fixed root is used; elsewhere each argument is expanded
// as a glob and at least one root must result.
func resolveRoots(goos string, args []string, logger *slog.Logger) ([]string, error) {
	if fixed, ok := modeler.DefaultRoot(goos); ok {
		if len(args) > 0 {
			return nil, errors.NewUserError(
				errors.New("installation roots cannot be given on this platform"),
				fmt.Sprintf("The installation root is fixed at %s", fixed))
		}
		return []string{fixed}, nil
	}

	var roots []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, errors.NewUserError(errors.Wrapf(err, "bad pattern %q", arg), "")
		}
		if len(matches) == 0 {
			logger.Warn("no installations match", "pattern", arg)
			continue
		}
		roots = append(roots, matches...)
	}

	if len(roots) == 0 {
		return nil, errors.NewUserError(
			errors.New("no installation roots given"),
			"Pass at least one installation root directory")
	}
	return roots, nil
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cobraCmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("DMSYNC_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cobraCmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cobraCmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cobraCmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cobraCmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfigLoad surfaces config file load errors before any command
// runs. Help, version, doctor, and init remain usable with a broken
// config file.
func checkConfigLoad(cobraCmd *cobra.Command) error {
	switch cobraCmd.Name() {
	case "help", "version", "doctor", "init":
		return nil
	}
	if configLoadErr != nil {
		return errors.NewUserError(configLoadErr, "Fix or remove the config file, or run 'dmsync init --force'")
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
