// Package errors provides error handling conventions for the dmsync CLI.
//
// This package defines an ExitError type for CLI exit code handling, exit
// code constants following standard Unix conventions, and thin re-exports
// of the cockroachdb/errors primitives used throughout the module.
// Sentinel errors for specific failure conditions live in the package that
// owns the condition (for example modeler.ErrVersionNotFound).
//
// # Exit Codes
//
// The package defines standard exit codes for the CLI:
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (bad flags, invalid configuration)
//   - ExitSystem (2): System-related error (copy or lookup failure during a run)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports error unwrapping via [errors.Unwrap] and
// [errors.As]:
//
//	err := apperrors.NewUserError(err, "Create the directory first or run dmsync init")
//	var exitErr *apperrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Fprintln(os.Stderr, exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
