// Package reporter renders the results of a reformatting run.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/gofmtchanged/pkg/runner"
)

// Compile-time interface checks.
var (
	_ Reporter = (*TextReporter)(nil)
	_ Reporter = (*JSONReporter)(nil)
	_ Reporter = (*DiffReporter)(nil)
	_ Reporter = (*StdoutReporter)(nil)
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of files that need or received reformatting
	// and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	// Default writer to stdout if not specified
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = DefaultOptions().ErrorWriter
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatStdout:
		return NewStdoutReporter(opts), nil
	case FormatSummary:
		opts.ShowSummary = true
		return newSummaryReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// displayPath prefers the repository-relative path of an outcome.
func displayPath(file runner.FileOutcome) string {
	if file.RepoPath != "" {
		return file.RepoPath
	}
	return file.Path
}
