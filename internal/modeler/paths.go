package modeler

import (
	"os"
	"path/filepath"
	"runtime"
)

// Names of the two logical configuration locations, in sync order.
const (
	LocationTypes  = "types"
	LocationSystem = "system"
)

// Per-user configuration directory names.
const (
	windowsConfigDirName = "Oracle SQL Developer Data Modeler"
	unixConfigDirName    = ".oraclesqldeveloperdatamodeler"
)

// darwinRoot is the fixed installation location on macOS, where the
// product ships as an application bundle.
const darwinRoot = "/Applications/OracleDataModeler.app/Contents/Resources"

// LocationPair binds one logical configuration location to its two
// on-disk homes: the live path used by the installation and the
// version-labeled path inside the archive.
type LocationPair struct {
	Name        string
	InstallPath string
	ArchivePath string
}

// UserConfigDir returns the per-user directory where Data Modeler keeps
// runtime preferences outside the installation tree. On the Windows
// family it lives under the roaming application-data directory; on every
// other platform it is a dot-directory under the user's home.
func UserConfigDir(goos, home, appData string) string {
	if goos == "windows" {
		return filepath.Join(appData, windowsConfigDirName)
	}
	return filepath.Join(home, unixConfigDirName)
}

// Locations computes the two location pairs for one installation root and
// one archive version subtree. It is a pure function of its inputs: no
// filesystem access, no environment lookups. The types pair always comes
// first, the system pair second.
func Locations(root, version, archiveBase, goos, home, appData string) []LocationPair {
	versionDir := filepath.Join(archiveBase, version)
	userDir := UserConfigDir(goos, home, appData)

	return []LocationPair{
		{
			Name:        LocationTypes,
			InstallPath: filepath.Join(root, "datamodeler", "types"),
			ArchivePath: filepath.Join(versionDir, "datamodeler", "types"),
		},
		{
			Name:        LocationSystem,
			InstallPath: filepath.Join(userDir, "system"+version),
			ArchivePath: filepath.Join(versionDir, "system"),
		},
	}
}

// LocationsForHost resolves the location pairs against the ambient
// environment of the current process.
func LocationsForHost(root, version, archiveBase string) []LocationPair {
	home, _ := os.UserHomeDir()
	return Locations(root, version, archiveBase, runtime.GOOS, home, os.Getenv("APPDATA"))
}

// DefaultRoot returns the fixed installation root for platforms where
// the product installs to a single well-known location. ok is false when
// installation roots must be supplied explicitly.
func DefaultRoot(goos string) (root string, ok bool) {
	if goos == "darwin" {
		return darwinRoot, true
	}
	return "", false
}
