// Package cli holds the flag handling, setup and result emission shared by
// every secops binary.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitEnforcement = 2
)

// ErrEnforcement is returned when the policy's enforcement section fails the
// run. The report has already been written when it is returned.
var ErrEnforcement = errors.New("policy enforcement threshold reached")

// UsageError reports missing positional arguments. Its message is the
// tool's usage line.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string { return e.Usage }

// RequireArgs returns a cobra.PositionalArgs that fails with a UsageError
// when fewer than n arguments are given.
func RequireArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return &UsageError{Usage: usage}
		}
		return nil
	}
}

// Execute runs root and maps its error to an exit code: usage errors print
// the usage line to stdout, enforcement failures exit 2, anything else is
// printed to stderr and exits 1.
func Execute(root *cobra.Command) int {
	root.SilenceUsage = true
	root.SilenceErrors = true
	return exitCode(root.Execute(), root.OutOrStdout(), root.ErrOrStderr())
}

func exitCode(err error, stdout, stderr io.Writer) int {
	var usage *UsageError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usage):
		fmt.Fprintln(stdout, usage.Usage)
		return ExitError
	case errors.Is(err, ErrEnforcement):
		fmt.Fprintln(stderr, "Error:", err)
		return ExitEnforcement
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return ExitError
	}
}

// Main is the body of every binary's main function.
func Main(root *cobra.Command) {
	os.Exit(Execute(root))
}
