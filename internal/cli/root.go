// Package cli provides the Cobra command structure for gofmtchanged.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gofmtchanged/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gofmtchanged command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	flags := &reformatFlags{}

	rootCmd := &cobra.Command{
		Use:   "gofmtchanged [paths...]",
		Short: "Reformat only the Go code changed since a revision",
		Long: `gofmtchanged applies gofmt or goimports to the regions of Go files that
changed since a git revision, leaving untouched code exactly as it was.

Each file is formatted as a whole and only the chunks overlapping edited lines
are taken from the formatter output. The result is parsed and compared with
the original syntax tree before anything is written; when the trees differ the
surrounding context is widened until they match.

Examples:
  gofmtchanged                          Reformat changes since HEAD in place
  gofmtchanged --diff internal/         Print a patch instead of writing
  gofmtchanged --check -r main...       Fail if the branch needs reformatting
  gofmtchanged --stdout cmd/main.go     Print the reformatted file
  git show :a.go | gofmtchanged --stdin-filename a.go --stdout`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReformat(cmd, args, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	addReformatFlags(rootCmd, flags)

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd, color, os.Stdout)

	return rootCmd
}
