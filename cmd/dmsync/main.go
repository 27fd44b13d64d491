// Package main is the entry point for the dmsync CLI.
package main

import (
	"fmt"
	"os"

	"github.com/paulissoft/sync-datamodeler-config/cmd/dmsync/commands"
	"github.com/paulissoft/sync-datamodeler-config/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}
	os.Exit(errors.ExitUser)
}
