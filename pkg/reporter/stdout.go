package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gofmtchanged/internal/ui/pretty"
	"github.com/yaklabco/gofmtchanged/pkg/runner"
)

// StdoutReporter prints the reformatted content of each file, highlighted
// when writing to a color terminal. Errors go to the error writer.
type StdoutReporter struct {
	opts   Options
	styles *pretty.Styles
	out    *bufio.Writer
}

// NewStdoutReporter creates a new stdout reporter.
func NewStdoutReporter(opts Options) *StdoutReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &StdoutReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *StdoutReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.out.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var changed int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.opts.ErrorWriter, "%s: error: %v\n", displayPath(file), file.Error)
			continue
		}
		if file.Result == nil {
			continue
		}
		if file.Result.Changed {
			changed++
		}

		doc := file.Result.Content()
		if doc == nil {
			continue
		}
		if r.styles.ColorEnabled() {
			fmt.Fprint(r.out, r.styles.HighlightGo(doc.String()))
			continue
		}
		// Keep the original encoding and line endings byte for byte.
		encoded, err := doc.Encoded()
		if err != nil {
			return changed, fmt.Errorf("encode %s: %w", displayPath(file), err)
		}
		if _, err := r.out.Write(encoded); err != nil {
			return changed, fmt.Errorf("write %s: %w", displayPath(file), err)
		}
	}
	return changed, nil
}
