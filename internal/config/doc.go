// Package config provides configuration management for the dmsync CLI.
//
// This package handles loading and validating the tool's own
// configuration file. It carries the ambient settings a sync run falls
// back to when the corresponding flag is absent.
//
// # Configuration File
//
// The default configuration file location is <config-home>/dmsync/config.toml
// (on Linux ~/.config/dmsync/config.toml). The file uses TOML format:
//
//	config_directory = "/home/alice/.local/share/dmsync/archives"
//	retention = 5
//
// # Precedence
//
// Values resolve flag > environment (DMSYNC_ prefix) > config file >
// built-in default. The CLI layer performs the flag step; this package
// handles the rest through Viper.
//
// # Loading
//
//	config.Init()
//	cfg, err := config.Load("")
//
// A missing config file is not an error when no explicit path is given;
// defaults apply.
package config
