package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gofmtchanged/internal/ui/pretty"
	"github.com/yaklabco/gofmtchanged/pkg/runner"
)

// TextReporter formats results as styled terminal output: one status line
// per file that needs attention, then a summary.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer

	// summaryOnly prints the summary block and nothing else.
	summaryOnly bool
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

func newSummaryReporter(opts Options) *TextReporter {
	r := NewTextReporter(opts)
	r.summaryOnly = true
	return r
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No modified Go files."))
		}
		return 0, nil
	}

	if r.summaryOnly {
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
		return result.Stats.FilesChanged, nil
	}

	var changed int
	for _, file := range result.Files {
		path := r.styles.FilePath.Render(displayPath(file))

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
			continue
		}
		if file.Result == nil {
			continue
		}

		switch {
		case file.Result.Skipped:
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Warning.Render(file.Result.Summary()))
		case file.Result.Changed:
			changed++
			fmt.Fprintf(r.bw, "%s %s\n", r.styles.Changed.Render(file.Result.Summary()), path)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.Write))
	}

	return changed, nil
}
