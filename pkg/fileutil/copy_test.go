package fileutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCopyTree_CreatesDestinationAndParents(t *testing.T) {
	src := t.TempDir()
	writeTestFile(t, filepath.Join(src, "a.xml"), "a")
	writeTestFile(t, filepath.Join(src, "sub", "deep", "b.xml"), "b")

	dst := filepath.Join(t.TempDir(), "does", "not", "exist")

	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() error = %v", err)
	}

	for _, rel := range []string{"a.xml", filepath.Join("sub", "deep", "b.xml")} {
		if _, err := os.Stat(filepath.Join(dst, rel)); err != nil {
			t.Errorf("expected %s in destination: %v", rel, err)
		}
	}
}

func TestCopyTree_OverwritesExistingEntries(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTestFile(t, filepath.Join(src, "a.xml"), "new content")
	writeTestFile(t, filepath.Join(dst, "a.xml"), "old content")
	writeTestFile(t, filepath.Join(dst, "keep.xml"), "kept")

	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "a.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new content" {
		t.Errorf("a.xml = %q, want %q", got, "new content")
	}

	// Entries not present in the source are left alone.
	if _, err := os.Stat(filepath.Join(dst, "keep.xml")); err != nil {
		t.Errorf("pre-existing keep.xml should survive: %v", err)
	}
}

func TestCopyTree_MissingSource(t *testing.T) {
	err := CopyTree(filepath.Join(t.TempDir(), "missing"), t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyTree_SourceIsFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "file.txt")
	writeTestFile(t, src, "x")

	if err := CopyTree(src, t.TempDir()); err == nil {
		t.Fatal("expected error for non-directory source")
	}
}

func TestCopyTree_SkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	src := t.TempDir()
	outside := filepath.Join(t.TempDir(), "secret.txt")
	writeTestFile(t, outside, "secret")
	if err := os.Symlink(outside, filepath.Join(src, "link.xml")); err != nil {
		t.Fatal(err)
	}
	writeTestFile(t, filepath.Join(src, "real.xml"), "real")

	dst := t.TempDir()
	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() error = %v", err)
	}

	if _, err := os.Lstat(filepath.Join(dst, "link.xml")); !os.IsNotExist(err) {
		t.Error("symlink should not be copied")
	}
	if _, err := os.Stat(filepath.Join(dst, "real.xml")); err != nil {
		t.Errorf("regular file should be copied: %v", err)
	}
}

func TestCopyTree_PreservesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}

	src := t.TempDir()
	path := filepath.Join(src, "exec.xml")
	writeTestFile(t, path, "x")
	if err := os.Chmod(path, 0o755); err != nil {
		t.Fatal(err)
	}

	dst := t.TempDir()
	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dst, "exec.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}
