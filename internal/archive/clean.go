package archive

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
)

// isNonXMLFile reports whether a file name is outside the archive
// allow-list. Only .xml files (case-sensitive) survive a backup.
func isNonXMLFile(name string) bool {
	return !strings.HasSuffix(name, ".xml")
}

// isSystemCacheDir reports whether a directory base name marks a Data
// Modeler cache directory, which is never worth archiving.
func isSystemCacheDir(name string) bool {
	return strings.HasPrefix(name, "system_cache")
}

// insideRoot reports whether path is root itself or a descendant of root.
func insideRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Clean prunes a freshly written backup tree down to its .xml files.
// Three passes, in order: delete non-xml regular files, delete
// system_cache* directories with their contents, then best-effort remove
// directories left empty (deepest first, dir itself excluded). A missing
// dir is a no-op. Individual deletion failures are logged and swallowed;
// only a failure to walk a live tree is returned.
//
// Clean is idempotent and never touches anything outside dir. It is
// invoked after backup copies only, never for restores.
func Clean(dir string, log *slog.Logger) error {
	info, err := os.Lstat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "stat %s", dir)
	}
	if !info.IsDir() {
		return errors.Newf("%s is not a directory", dir)
	}

	if err := removeNonXMLFiles(dir, log); err != nil {
		return err
	}
	if err := removeCacheDirs(dir, log); err != nil {
		return err
	}
	removeEmptyDirs(dir, log)
	return nil
}

// removeNonXMLFiles collects every regular file under dir that fails the
// allow-list, then deletes them.
func removeNonXMLFiles(dir string, log *slog.Logger) error {
	var doomed []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && isNonXMLFile(d.Name()) {
			doomed = append(doomed, path)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "scanning %s", dir)
	}

	for _, path := range doomed {
		if !insideRoot(dir, path) {
			log.Warn("skipping path outside archive tree", "path", path)
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("could not remove file", "path", path, "error", err)
			continue
		}
		log.Debug("removed non-xml file", "path", path)
	}
	return nil
}

// removeCacheDirs collects every system_cache* directory under dir, then
// deletes each with its contents. Directories that disappeared because an
// ancestor matched too are fine: RemoveAll on a missing path is nil.
func removeCacheDirs(dir string, log *slog.Logger) error {
	var doomed []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != dir && isSystemCacheDir(d.Name()) {
			doomed = append(doomed, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "scanning %s", dir)
	}

	for _, path := range doomed {
		if !insideRoot(dir, path) {
			log.Warn("skipping path outside archive tree", "path", path)
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			log.Warn("could not remove cache directory", "path", path, "error", err)
			continue
		}
		log.Debug("removed cache directory", "path", path)
	}
	return nil
}

// removeEmptyDirs walks dir post-order and tries to remove each
// directory except dir itself. Non-empty and already-gone directories are
// expected and skipped silently; anything else is logged as a warning.
// This pass is best effort and never fails the clean.
func removeEmptyDirs(dir string, log *slog.Logger) {
	var dirs []string

	// WalkDir visits parents before children; iterating the collected
	// list in reverse yields the deepest directories first.
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != dir {
			dirs = append(dirs, path)
		}
		return nil
	})

	for i := len(dirs) - 1; i >= 0; i-- {
		if err := os.Remove(dirs[i]); err != nil && !ignorableRemoveError(err) {
			log.Warn("could not remove directory", "path", dirs[i], "error", err)
		}
	}
}

// ignorableRemoveError reports whether a directory removal failure is
// part of normal operation for the best-effort empty-dir pass.
func ignorableRemoveError(err error) bool {
	if os.IsNotExist(err) {
		return true
	}
	return errors.Is(err, syscall.ENOTEMPTY) || errors.Is(err, syscall.EEXIST)
}
