// Package paths resolves the per-user base directories the dmsync CLI
// keeps its own state in (config file, default archive location). It
// wraps the XDG base-directory spec via github.com/adrg/xdg so the same
// code works across Linux, macOS, and Windows.
//
// These are the tool's directories. The Data Modeler installation and
// user-config paths being synced are resolved by the modeler package.
package paths
