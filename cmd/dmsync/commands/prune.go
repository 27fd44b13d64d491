package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paulissoft/sync-datamodeler-config/internal/archive"
	"github.com/paulissoft/sync-datamodeler-config/internal/errors"
	"github.com/paulissoft/sync-datamodeler-config/internal/logging"
)

var (
	pruneKeep      int
	pruneYes       bool
	pruneConfigDir string
)

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", 0,
		"number of archived versions to retain (default from config)")
	pruneCmd.Flags().BoolVarP(&pruneYes, "yes", "y", false,
		"skip the confirmation prompt")
	pruneCmd.Flags().StringVar(&pruneConfigDir, "config-directory", "",
		"archive base directory")
	rootCmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old archived versions",
	Long: `Remove archived configuration versions from the archive directory.

With --keep N, the N most recent versions are kept and everything older
is removed (the default N comes from the retention setting in the config
file). Without --keep on a terminal, an interactive picker lets you
select the versions to delete.`,
	Example: `  # Keep only the 3 most recent archived versions
  dmsync prune --keep 3 --config-directory ~/dm-backups

  # Pick versions to delete interactively
  dmsync prune --config-directory ~/dm-backups

  # Remove everything without prompting
  dmsync prune --keep 0 --yes

  See Also:
    dmsync list - List archived versions`,
	RunE: runPrune,
}

func runPrune(cobraCmd *cobra.Command, _ []string) error {
	archiveDir, err := resolveArchiveDir(pruneConfigDir)
	if err != nil {
		return err
	}

	entries, err := archive.List(archiveDir)
	if err != nil {
		if errors.Is(err, archive.ErrNoVersionsFound) {
			fmt.Println("No archived versions to prune")
			return nil
		}
		return errors.Wrap(err, "listing archive")
	}

	if !cobraCmd.Flags().Changed("keep") && logging.IsTTY(os.Stdout) {
		return pruneInteractive(os.Stdout, archiveDir, entries)
	}

	keep := pruneKeep
	if !cobraCmd.Flags().Changed("keep") {
		keep = viper.GetInt("retention")
	}
	return pruneByRetention(os.Stdout, archiveDir, entries, keep)
}

func pruneByRetention(w io.Writer, archiveDir string, entries []archive.Entry, keep int) error {
	if keep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}

	if len(entries) <= keep {
		fmt.Fprintln(w, "No archived versions to prune")
		return nil
	}

	removed, err := archive.Prune(archiveDir, keep)
	if err != nil {
		return errors.Wrap(err, "pruning archive")
	}

	for _, id := range removed {
		fmt.Fprintf(w, "%s✓ removed %s%s\n", colorGreen, id, colorReset)
	}
	fmt.Fprintf(w, "\nTotal: removed %d archived version(s), kept %d\n", len(removed), keep)
	return nil
}

func pruneInteractive(w io.Writer, archiveDir string, entries []archive.Entry) error {
	indexes, err := fuzzyfinder.FindMulti(
		entries,
		func(i int) string {
			return fmt.Sprintf("%s (%s)", entries[i].ID,
				entries[i].CreatedAt.Local().Format("2006-01-02 15:04"))
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			e := entries[i]
			if e.Manifest == nil {
				return fmt.Sprintf("Version: %s\nCreated: %s\n\n(no manifest)",
					e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return fmt.Sprintf("Version: %s\nCreated: %s\nSource:  %s\nFiles:   %d\nTool:    %s",
				e.ID,
				e.Manifest.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.Manifest.SourceRoot,
				e.Manifest.FileCount(),
				e.Manifest.ToolVersion,
			)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			fmt.Fprintln(w, "Aborted")
			return nil
		}
		return errors.Wrap(err, "interactive selection failed")
	}

	if !pruneYes {
		if !confirm(fmt.Sprintf("Delete %d archived version(s)?", len(indexes))) {
			fmt.Fprintln(w, "Aborted")
			return nil
		}
	}

	for _, i := range indexes {
		id := entries[i].ID
		if err := archive.Remove(archiveDir, id); err != nil {
			return errors.Wrapf(err, "removing %s", id)
		}
		fmt.Fprintf(w, "%s✓ removed %s%s\n", colorGreen, id, colorReset)
	}
	fmt.Fprintf(w, "\nTotal: removed %d archived version(s)\n", len(indexes))
	return nil
}

// confirm prompts the user for a yes/no confirmation.
// Returns true only if the user enters "y" or "yes" (case-insensitive).
func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N] ", prompt)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
