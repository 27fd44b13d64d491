// Package sync implements the configuration sync engine: for each
// installation root it looks up the product version, resolves the two
// configuration location pairs, copies them in the direction the mode
// dictates, and prunes freshly written backup trees.
package sync

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/paulissoft/sync-datamodeler-config/internal/archive"
	"github.com/paulissoft/sync-datamodeler-config/internal/modeler"
	"github.com/paulissoft/sync-datamodeler-config/pkg/fileutil"
)

// Mode selects the copy direction for a run.
type Mode int

const (
	// ModeBackup copies installation paths into the archive.
	ModeBackup Mode = iota
	// ModeRestore copies archive paths back into the installation.
	ModeRestore
)

// String returns the mode name for logs and messages.
func (m Mode) String() string {
	if m == ModeRestore {
		return "restore"
	}
	return "backup"
}

// RunConfig is the immutable description of one sync run, built once by
// the CLI layer and passed by value into Run.
type RunConfig struct {
	// Roots are the installation roots to process, in order.
	Roots []string

	// Mode is the copy direction for every root in the run.
	Mode Mode

	// ArchiveDir is the archive base directory. It must exist and be
	// writable; the CLI validates this before the engine runs.
	ArchiveDir string

	// VersionOverride, when non-empty, names the archive version
	// subdirectory instead of the version the installation reports.
	// The live version is still looked up to validate the root.
	VersionOverride string

	// ToolVersion is recorded in backup manifests.
	ToolVersion string
}

// Result reports the outcome for a single installation root.
type Result struct {
	// Root is the installation root that was processed.
	Root string

	// Version is the archive version subdirectory used. Empty when
	// version lookup failed.
	Version string

	// Err is non-nil when processing this root failed. Earlier copies
	// for the same root are not rolled back.
	Err error
}

// Engine runs backup and restore passes over installation roots.
type Engine struct {
	log *slog.Logger

	goos    string
	home    string
	appData string
}

// Option configures an Engine.
type Option func(*Engine)

// WithPlatform overrides the host environment used for path resolution.
// Tests use this to pin the operating system and user directories.
func WithPlatform(goos, home, appData string) Option {
	return func(e *Engine) {
		e.goos = goos
		e.home = home
		e.appData = appData
	}
}

// New creates an Engine that logs to log and resolves paths against the
// current host environment.
func New(log *slog.Logger, opts ...Option) *Engine {
	home, _ := os.UserHomeDir()
	e := &Engine{
		log:     log,
		goos:    runtime.GOOS,
		home:    home,
		appData: os.Getenv("APPDATA"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes each root in cfg independently and in order. A failure
// on one root is recorded in its Result and does not stop the remaining
// roots; nothing is rolled back.
func (e *Engine) Run(cfg RunConfig) []Result {
	results := make([]Result, 0, len(cfg.Roots))
	for _, root := range cfg.Roots {
		res := e.runRoot(root, cfg)
		if res.Err != nil {
			e.log.Error("sync failed", "root", root, "error", res.Err)
		}
		results = append(results, res)
	}
	return results
}

func (e *Engine) runRoot(root string, cfg RunConfig) Result {
	res := Result{Root: root}

	// The live version is always looked up, even under an override: a
	// root without a readable version file is not an installation and
	// is rejected before any copy.
	live, err := modeler.ReadVersion(root)
	if err != nil {
		res.Err = errors.Wrapf(err, "validating installation at %s", root)
		return res
	}

	version := live
	if cfg.VersionOverride != "" {
		version = cfg.VersionOverride
	}
	res.Version = version

	e.log.Info("syncing", "root", root, "mode", cfg.Mode, "version", version)

	pairs := modeler.Locations(root, version, cfg.ArchiveDir, e.goos, e.home, e.appData)
	counts := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		n, err := e.syncPair(pair, cfg.Mode)
		if err != nil {
			res.Err = errors.Wrapf(err, "syncing %s location", pair.Name)
			return res
		}
		counts[pair.Name] = n
	}

	if cfg.Mode == ModeBackup {
		e.writeManifest(root, live, version, cfg, counts)
	}
	return res
}

// syncPair copies one location pair in the direction mode dictates and,
// for backups, cleans the freshly written archive tree. Returns the
// number of archived files (zero for restores). A missing source is a
// no-op.
func (e *Engine) syncPair(pair modeler.LocationPair, mode Mode) (int, error) {
	src, dst := pair.InstallPath, pair.ArchivePath
	if mode == ModeRestore {
		src, dst = pair.ArchivePath, pair.InstallPath
	}

	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			e.log.Info("nothing to copy", "location", pair.Name, "source", src)
			return 0, nil
		}
		return 0, errors.Wrapf(err, "stat %s", src)
	}

	e.log.Debug("copying", "location", pair.Name, "from", src, "to", dst)
	if err := fileutil.CopyTree(src, dst); err != nil {
		return 0, err
	}

	if mode != ModeBackup {
		return 0, nil
	}

	if err := archive.Clean(dst, e.log); err != nil {
		return 0, errors.Wrapf(err, "cleaning %s", dst)
	}

	n, err := archive.CountFiles(dst)
	if err != nil {
		e.log.Warn("could not count archived files", "path", dst, "error", err)
		return 0, nil
	}
	return n, nil
}

// writeManifest records backup metadata in the version directory. A
// manifest failure never fails the run: the copied data is already in
// place.
func (e *Engine) writeManifest(root, live, version string, cfg RunConfig, counts map[string]int) {
	versionDir := filepath.Join(cfg.ArchiveDir, version)
	if _, err := os.Stat(versionDir); err != nil {
		// Both sources were missing, nothing was archived.
		e.log.Debug("skipping manifest, no archive written", "root", root)
		return
	}

	m := &archive.Manifest{
		Version:     archive.ManifestVersion,
		CreatedAt:   time.Now().UTC(),
		SourceRoot:  root,
		LiveVersion: live,
		ToolVersion: cfg.ToolVersion,
		Locations:   counts,
	}
	if err := archive.WriteManifest(versionDir, m); err != nil {
		e.log.Warn("could not write manifest", "path", versionDir, "error", err)
	}
}
