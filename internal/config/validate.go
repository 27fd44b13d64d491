package config

import (
	"path/filepath"
	"strings"

	"github.com/paulissoft/sync-datamodeler-config/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrNegativeRetention indicates the retention field is below zero.
	ErrNegativeRetention = errors.New("retention must be non-negative")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Retention < 0 {
		errs = append(errs, ErrNegativeRetention)
	}

	if cfg.ConfigDirectory != "" {
		if err := validatePath(cfg.ConfigDirectory); err != nil {
			errs = append(errs, &PathError{
				Field: "config_directory",
				Path:  cfg.ConfigDirectory,
				Err:   err,
			})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if path == "" {
		return nil
	}

	// Null bytes are never valid in paths.
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
