// Repofind is an interactive fuzzy finder for git repositories.
//
// It scans directories for repositories (or reads a TOML manifest, or
// lines from stdin), lets the user narrow them down by typing, and prints
// the path of the chosen repository:
//
//	cd "$(repofind ~/src)"
//
// See 'repofind --help' for the available flags and commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"repofind/internal/logging"
	"repofind/internal/version"
)

// Exit codes
const (
	exitError    = 1
	exitCanceled = 130
)

// errCanceled ends a session the user closed without choosing anything
var errCanceled = errors.New("canceled")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	logging.Sync()

	switch {
	case errors.Is(err, errCanceled):
		os.Exit(exitCanceled)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "repofind [roots...]",
	Short: "Fuzzy-find a git repository and print its path",
	Long: `Scan directories for git repositories and pick one interactively.

Type to filter, move with the arrow keys and press enter to print the path of
the selected repository. Escape or ctrl+c cancels with exit status 130.

Without roots the directories from the config file are scanned. With --stdin,
or when stdin is not a terminal and no roots are given, each input line is an
item and the chosen line is printed as is.`,
	Example: `  # Jump to a repository below ~/src
  cd "$(repofind ~/src)"

  # Start with a query and keep watching for new clones
  repofind --query api --watch

  # Pick from arbitrary lines
  git branch --format='%(refname:short)' | repofind --stdin`,
	Version:       version.Full(),
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFinder,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "repofind %s\n", version.Full())
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(versionCmd)
}
