package archive

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/paulissoft/sync-datamodeler-config/pkg/fileutil"
)

// Manifest format version for forward compatibility.
const ManifestVersion = 1

// ManifestFileName is the metadata file written at the top of each
// archived version directory.
const ManifestFileName = "manifest.yaml"

// Sentinel errors for archive inventory operations.
var (
	// ErrNoVersionsFound indicates the archive base holds no version
	// subdirectories.
	ErrNoVersionsFound = errors.New("no archived versions found")

	// ErrInvalidVersionID indicates a version identifier that does not
	// name a direct child of the archive base.
	ErrInvalidVersionID = errors.New("invalid version identifier")
)

// Manifest describes one archived version. It is stored as
// manifest.yaml in the version directory after a successful backup and
// is purely informational: restores never read it.
type Manifest struct {
	// Version is the manifest format version.
	Version int `yaml:"version"`

	// CreatedAt is when the backup was taken.
	CreatedAt time.Time `yaml:"created_at"`

	// SourceRoot is the installation root the backup was taken from.
	SourceRoot string `yaml:"source_root"`

	// LiveVersion is the version the installation reported at backup
	// time. It differs from the directory name only when the run used a
	// version override.
	LiveVersion string `yaml:"live_version"`

	// ToolVersion is the dmsync version that wrote the backup.
	ToolVersion string `yaml:"tool_version"`

	// Locations maps location names to the number of files archived.
	Locations map[string]int `yaml:"locations"`

	// ID is the version directory name. Populated when loading from
	// disk, not stored in the file.
	ID string `yaml:"-"`
}

// FileCount returns the total number of archived files across locations.
func (m *Manifest) FileCount() int {
	total := 0
	for _, n := range m.Locations {
		total += n
	}
	return total
}

// Entry is one archived version under the archive base.
type Entry struct {
	// ID is the version directory name (e.g. "18.4.0.339.1532").
	ID string

	// Path is the version directory.
	Path string

	// CreatedAt is the manifest creation time, or the directory
	// modification time when no manifest is present.
	CreatedAt time.Time

	// Manifest is nil when the version directory has no readable
	// manifest.
	Manifest *Manifest
}

// WriteManifest writes m atomically into versionDir.
func WriteManifest(versionDir string, m *Manifest) error {
	path := filepath.Join(versionDir, ManifestFileName)
	return errors.Wrapf(fileutil.AtomicWriteYAML(path, m), "writing %s", path)
}

// ReadManifest loads the manifest from versionDir. The returned
// manifest's ID is set to the directory base name.
func ReadManifest(versionDir string) (*Manifest, error) {
	path := filepath.Join(versionDir, ManifestFileName)

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	m.ID = filepath.Base(versionDir)
	return &m, nil
}

// List returns the archived versions under base, newest first. Versions
// without a manifest are included with the directory mtime as their
// creation time. Returns ErrNoVersionsFound when base is empty or does
// not exist.
func List(base string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoVersionsFound
		}
		return nil, errors.Wrapf(err, "reading archive base %s", base)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}

		path := filepath.Join(base, de.Name())
		entry := Entry{ID: de.Name(), Path: path}

		if m, err := ReadManifest(path); err == nil {
			entry.Manifest = m
			entry.CreatedAt = m.CreatedAt
		} else if info, err := de.Info(); err == nil {
			entry.CreatedAt = info.ModTime()
		}

		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, ErrNoVersionsFound
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return entries, nil
}

// Remove deletes one archived version directory under base. The id must
// be a plain directory name; anything that would escape base is
// rejected.
func Remove(base, id string) error {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return errors.Wrapf(ErrInvalidVersionID, "%q", id)
	}
	path := filepath.Join(base, id)
	return errors.Wrapf(os.RemoveAll(path), "removing %s", path)
}

// Prune removes all but the keep newest archived versions under base.
// Returns the IDs that were removed, in removal order. An empty archive
// is not an error.
func Prune(base string, keep int) ([]string, error) {
	if keep < 0 {
		return nil, errors.New("keep must be non-negative")
	}

	entries, err := List(base)
	if err != nil {
		if errors.Is(err, ErrNoVersionsFound) {
			return nil, nil
		}
		return nil, err
	}

	var removed []string
	for i := keep; i < len(entries); i++ {
		if err := Remove(base, entries[i].ID); err != nil {
			return removed, err
		}
		removed = append(removed, entries[i].ID)
	}

	return removed, nil
}

// CountFiles counts the regular files under dir. A missing dir counts
// as zero.
func CountFiles(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "counting files in %s", dir)
	}
	return count, nil
}
