package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paulissoft/sync-datamodeler-config/internal/doctor"
	"github.com/paulissoft/sync-datamodeler-config/internal/errors"
	"github.com/paulissoft/sync-datamodeler-config/internal/modeler"
)

var doctorConfigDir string

func init() {
	doctorCmd.Flags().StringVar(&doctorConfigDir, "config-directory", "",
		"archive base directory to check")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor [installation-root ...]",
	Short: "Check the dmsync environment",
	Long: `Run diagnostic checks over the dmsync environment: the configuration
file, the archive directory, the per-user Data Modeler configuration
directory, and any installation roots given as arguments.`,
	Example: `  # Check the ambient environment
  dmsync doctor

  # Also verify installation roots
  dmsync doctor /opt/datamodeler-*

  See Also: dmsync init`,
	RunE: runDoctor,
}

func runDoctor(_ *cobra.Command, args []string) error {
	runner := doctor.NewRunner()
	runner.AddCheck(&doctor.ConfigFileCheck{})

	// The archive directory check uses the same precedence as a sync
	// run but an unset directory is a warning here, not a hard error.
	archiveDir := doctorConfigDir
	if archiveDir == "" {
		archiveDir = viper.GetString("config_directory")
	}
	runner.AddCheck(&doctor.ArchiveDirCheck{Dir: archiveDir})

	home, _ := os.UserHomeDir()
	runner.AddCheck(&doctor.UserConfigDirCheck{
		Dir: modeler.UserConfigDir(runtime.GOOS, home, os.Getenv("APPDATA")),
	})

	roots := args
	if fixed, ok := modeler.DefaultRoot(runtime.GOOS); ok && len(roots) == 0 {
		roots = []string{fixed}
	}
	for _, arg := range roots {
		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			matches = []string{arg}
		}
		for _, root := range matches {
			runner.AddCheck(&doctor.InstallationCheck{Root: root})
		}
	}

	report := runner.Run()
	writeDoctorReport(os.Stdout, report)

	if report.HasErrors() {
		return errors.NewSystemError(
			errors.Newf("%d check(s) failed", report.Summary.Errors), "")
	}
	return nil
}

func writeDoctorReport(w io.Writer, report *doctor.Report) {
	marks := map[doctor.Severity]string{
		doctor.SeverityPass:    color.GreenString("✓"),
		doctor.SeverityInfo:    color.CyanString("i"),
		doctor.SeverityWarning: color.YellowString("!"),
		doctor.SeverityError:   color.RedString("✗"),
	}

	for _, result := range report.Results {
		fmt.Fprintf(w, "%s %s: %s\n", marks[result.Status], result.Name, result.Message)
		if result.FixHint != "" && result.Status >= doctor.SeverityWarning {
			fmt.Fprintf(w, "    %s\n", result.FixHint)
		}
	}

	fmt.Fprintf(w, "\n%d passed, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Warnings, report.Summary.Errors)
}
