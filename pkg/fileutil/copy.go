package fileutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/paulissoft/sync-datamodeler-config/internal/errors"
)

// CopyTree recursively copies the directory tree rooted at src into dst.
// dst and any missing parent directories are created; entries that already
// exist under dst are overwritten. File permissions are preserved from the
// source. Symlinks are skipped: a configuration tree is expected to hold
// regular files only, and following links could write outside dst.
//
// src must be an existing directory; callers that want missing-source-is-
// a-no-op semantics check for existence themselves.
func CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "stat %s", src)
	}
	if !info.IsDir() {
		return errors.Newf("%s is not a directory", src)
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}

	return copyDirEntries(src, dst)
}

// copyDirEntries copies the contents of src into dst. dst must exist.
func copyDirEntries(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, "reading directory %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.Type()&os.ModeSymlink != 0:
			continue
		case entry.IsDir():
			if err := os.MkdirAll(dstPath, 0o755); err != nil {
				return errors.Wrapf(err, "creating directory %s", dstPath)
			}
			if err := copyDirEntries(srcPath, dstPath); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := copyFileContents(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFileContents copies a single regular file from src to dst,
// truncating any existing destination file.
func copyFileContents(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening source file %s", src)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return errors.Wrapf(err, "stat source file %s", src)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, "creating destination file %s", dst)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.Wrapf(err, "copying %s to %s", src, dst)
	}

	return errors.Wrapf(dstFile.Close(), "closing %s", dst)
}
