package modeler

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/paulissoft/sync-datamodeler-config/pkg/fileutil"
)

// versionKey is the properties key holding the full product version.
const versionKey = "VER_FULL"

// Sentinel errors for version lookup.
var (
	// ErrVersionFileMissing indicates the version.properties file could
	// not be read, which means the path is not a Data Modeler installation.
	ErrVersionFileMissing = errors.New("version file missing")

	// ErrVersionNotFound indicates the version.properties file exists but
	// carries no usable VER_FULL value.
	ErrVersionNotFound = errors.New("version not found")
)

// VersionFile returns the path of the properties file that identifies an
// installation, for use in diagnostics and error messages.
func VersionFile(root string) string {
	return filepath.Join(root, "datamodeler", "bin", "version.properties")
}

// ReadVersion extracts the product version from the version.properties
// file under root. The file is a Java-style properties file; only the
// VER_FULL key is consulted, any other keys are ignored. When a key is
// repeated the last occurrence wins.
func ReadVersion(root string) (string, error) {
	path := VersionFile(root)

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return "", errors.Wrapf(ErrVersionFileMissing, "%s: %v", path, err)
	}

	var version string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(key) == versionKey {
			version = strings.TrimSpace(value)
		}
	}

	if version == "" {
		return "", errors.Wrapf(ErrVersionNotFound, "no %s key in %s", versionKey, path)
	}
	return version, nil
}
