// Package config provides configuration management for dmsync using Viper.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/paulissoft/sync-datamodeler-config/internal/errors"
	"github.com/paulissoft/sync-datamodeler-config/internal/paths"
)

// AppName is the application name used for config file and directory naming.
const AppName = "dmsync"

// DefaultRetention is the default number of archived versions kept by prune.
const DefaultRetention = 5

// Config represents the dmsync configuration file structure.
type Config struct {
	// ConfigDirectory is the default archive base directory, used when
	// the --config-directory flag is not given.
	ConfigDirectory string `mapstructure:"config_directory" toml:"config_directory"`

	// Retention is the default number of archived versions to keep when
	// pruning.
	Retention int `mapstructure:"retention" toml:"retention"`
}

// Dir returns the directory holding the dmsync config file.
func Dir() string {
	return filepath.Join(paths.ConfigHome(), AppName)
}

// File returns the default config file path.
func File() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultArchiveDir returns the archive base directory used when neither
// flag, environment, nor config file name one.
func DefaultArchiveDir() string {
	return filepath.Join(paths.DataHome(), AppName, "archives")
}

// Init initializes Viper with defaults, search paths, and environment
// binding. Call once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	// Search paths, in order of precedence.
	viper.AddConfigPath(".")
	viper.AddConfigPath(Dir())

	// DMSYNC_CONFIG_DIRECTORY, DMSYNC_RETENTION.
	viper.SetEnvPrefix("DMSYNC")
	viper.AutomaticEnv()

	// Registering a default for every key keeps AutomaticEnv visible to
	// Unmarshal.
	viper.SetDefault("config_directory", "")
	viper.SetDefault("retention", DefaultRetention)
}

// Load reads the configuration file. If path is non-empty it reads that
// specific file; otherwise it searches the default locations, and a
// missing file is not an error (defaults apply).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	return &cfg, nil
}
