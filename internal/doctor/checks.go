package doctor

import (
	"fmt"
	"os"

	"github.com/paulissoft/sync-datamodeler-config/internal/config"
	"github.com/paulissoft/sync-datamodeler-config/internal/modeler"
)

// ConfigFileCheck verifies the dmsync configuration file, when present,
// parses and validates.
type ConfigFileCheck struct {
	// Path overrides the default config file location. Empty means the
	// standard search path.
	Path string
}

func (c *ConfigFileCheck) Name() string     { return "config-file" }
func (c *ConfigFileCheck) Category() string { return "config" }

func (c *ConfigFileCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	path := c.Path
	if path == "" {
		path = config.File()
	}

	if _, err := os.Stat(path); err != nil {
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("no config file at %s, defaults apply", path)
		result.FixHint = "Run 'dmsync init' to create one"
		return result
	}

	cfg, err := config.Load(path)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("config file %s is unreadable: %v", path, err)
		return result
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("config file %s is invalid: %v", path, errs[0])
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("config file %s is valid", path)
	return result
}

// ArchiveDirCheck verifies the archive base directory exists and is
// writable.
type ArchiveDirCheck struct {
	// Dir is the archive base directory to probe.
	Dir string
}

func (c *ArchiveDirCheck) Name() string     { return "archive-directory" }
func (c *ArchiveDirCheck) Category() string { return "archive" }

func (c *ArchiveDirCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.Dir == "" {
		result.Status = SeverityWarning
		result.Message = "no archive directory configured"
		result.FixHint = "Pass --config-directory or set config_directory in the config file"
		return result
	}

	info, err := os.Stat(c.Dir)
	switch {
	case err != nil:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("archive directory %s does not exist", c.Dir)
		result.FixHint = "Create it, or run 'dmsync init' to set up the default location"
	case !info.IsDir():
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s is not a directory", c.Dir)
	case !isWritable(c.Dir):
		result.Status = SeverityError
		result.Message = fmt.Sprintf("archive directory %s is not writable", c.Dir)
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("archive directory %s is writable", c.Dir)
	}
	return result
}

// InstallationCheck verifies a path is a Data Modeler installation by
// reading its version.
type InstallationCheck struct {
	// Root is the installation root to probe.
	Root string
}

func (c *InstallationCheck) Name() string     { return "installation" }
func (c *InstallationCheck) Category() string { return "installation" }

func (c *InstallationCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	version, err := modeler.ReadVersion(c.Root)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s is not a Data Modeler installation: %v", c.Root, err)
		result.FixHint = fmt.Sprintf("Expected a readable %s", modeler.VersionFile(c.Root))
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s reports version %s", c.Root, version)
	return result
}

// UserConfigDirCheck reports whether the per-user Data Modeler
// configuration directory exists on this host. Absence is normal on a
// machine the product has never run on.
type UserConfigDirCheck struct {
	// Dir is the per-user config directory to probe.
	Dir string
}

func (c *UserConfigDirCheck) Name() string     { return "user-config-directory" }
func (c *UserConfigDirCheck) Category() string { return "installation" }

func (c *UserConfigDirCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	info, err := os.Stat(c.Dir)
	switch {
	case err != nil:
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("user config directory %s not present yet", c.Dir)
	case !info.IsDir():
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%s exists but is not a directory", c.Dir)
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("user config directory %s exists", c.Dir)
	}
	return result
}

// isWritable probes dir by creating and removing a temp file.
func isWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".dmsync-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
