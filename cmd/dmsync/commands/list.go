package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/paulissoft/sync-datamodeler-config/internal/archive"
	"github.com/paulissoft/sync-datamodeler-config/internal/errors"
)

var (
	listJSON      bool
	listConfigDir string
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listConfigDir, "config-directory", "",
		"archive base directory")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived configuration versions",
	Long: `List the version-labeled backups stored under the archive directory,
newest first. Versions written by dmsync carry a manifest with their
creation time and file counts; foreign or pre-existing version
directories are listed from directory metadata alone.`,
	Example: `  # List archived versions
  dmsync list --config-directory ~/dm-backups

  # Output as JSON
  dmsync list --json

  See Also:
    dmsync prune - Remove old archived versions`,
	RunE: runList,
}

// listEntry represents a single archived version in JSON output.
type listEntry struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	FileCount   *int      `json:"file_count,omitempty"`
	SourceRoot  string    `json:"source_root,omitempty"`
	ToolVersion string    `json:"tool_version,omitempty"`
}

func runList(_ *cobra.Command, _ []string) error {
	archiveDir, err := resolveArchiveDir(listConfigDir)
	if err != nil {
		return err
	}

	entries, err := archive.List(archiveDir)
	if err != nil && !errors.Is(err, archive.ErrNoVersionsFound) {
		return errors.Wrap(err, "listing archive")
	}

	if listJSON {
		return writeListJSON(os.Stdout, entries)
	}
	return writeListTabular(os.Stdout, archiveDir, entries)
}

func writeListJSON(w io.Writer, entries []archive.Entry) error {
	output := make([]listEntry, 0, len(entries))
	for _, e := range entries {
		item := listEntry{ID: e.ID, CreatedAt: e.CreatedAt}
		if m := e.Manifest; m != nil {
			count := m.FileCount()
			item.FileCount = &count
			item.SourceRoot = m.SourceRoot
			item.ToolVersion = m.ToolVersion
		}
		output = append(output, item)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(output), "encoding output")
}

func writeListTabular(w io.Writer, archiveDir string, entries []archive.Entry) error {
	fmt.Fprintf(w, "%sArchive: %s%s\n", colorCyan+colorBold, archiveDir, colorReset)

	if len(entries) == 0 {
		fmt.Fprintf(w, "  %s(no archived versions)%s\n", colorGray, colorReset)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create one with: dmsync --backup <installation-root>")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %sVERSION%s\t%sCREATED%s\t%sFILES%s\t%sSOURCE%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, e := range entries {
		files, source := "-", "-"
		if m := e.Manifest; m != nil {
			files = fmt.Sprintf("%d", m.FileCount())
			source = m.SourceRoot
		}
		fmt.Fprintf(tw, "  %s%s%s\t%s\t%s\t%s\n",
			colorGreen, e.ID, colorReset,
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			files,
			source)
	}
	return errors.Wrap(tw.Flush(), "flushing output")
}
