package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/paulissoft/sync-datamodeler-config/internal/config"
	"github.com/paulissoft/sync-datamodeler-config/internal/errors"
	"github.com/paulissoft/sync-datamodeler-config/internal/paths"
	"github.com/paulissoft/sync-datamodeler-config/pkg/fileutil"
)

var (
	initForce     bool
	initConfigDir string
	initRetention int
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	initCmd.Flags().StringVar(&initConfigDir, "config-directory", "",
		"archive base directory to record (default: per-user data directory)")
	initCmd.Flags().IntVar(&initRetention, "retention", config.DefaultRetention,
		"default number of archived versions kept by prune")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dmsync configuration",
	Long: `Bootstrap the dmsync configuration file and default archive directory.

Creates <config-home>/dmsync/config.toml recording the archive base
directory and the prune retention count, and creates the archive
directory itself so backup runs work out of the box.`,
	Example: `  # Initialize with the default archive location
  dmsync init

  # Record a custom archive directory
  dmsync init --config-directory ~/dm-backups

  # Overwrite an existing configuration
  dmsync init --force

  See Also: dmsync doctor`,
	RunE: runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	return writeInitConfig(os.Stdout, config.File(), initConfigDir, initRetention, initForce)
}

// writeInitConfig writes the config file and creates the archive
// directory it records.
func writeInitConfig(w io.Writer, configPath, archiveDir string, retention int, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Fprintf(w, "Configuration already exists at %s\n", configPath)
		fmt.Fprintln(w, "Use --force to overwrite")
		return nil
	}

	if archiveDir == "" {
		archiveDir = config.DefaultArchiveDir()
	}

	cfg := config.Config{
		ConfigDirectory: archiveDir,
		Retention:       retention,
	}
	if errs := config.Validate(&cfg); len(errs) > 0 {
		return errors.NewUserError(errs[0], "")
	}

	if err := paths.EnsureDir(archiveDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating archive directory %s", archiveDir)
	}

	if err := paths.EnsureDir(filepath.Dir(configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	if err := fileutil.AtomicWriteFile(configPath, data, 0o644); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	fmt.Fprintf(w, "Created %s\n", configPath)
	fmt.Fprintf(w, "Archive directory: %s\n", archiveDir)
	return nil
}
