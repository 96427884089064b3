package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/gofmtchanged/internal/ui/pretty"
	"github.com/yaklabco/gofmtchanged/pkg/patch"
	"github.com/yaklabco/gofmtchanged/pkg/runner"
)

// DiffReporter formats results as unified diffs in git style. File errors
// go to the error writer so that the output stays a valid patch.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.out.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var filesWithDiffs int
	var totalAdditions, totalDeletions int

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.opts.ErrorWriter, "%s: error: %v\n", displayPath(file), file.Error)
			continue
		}

		if file.Result == nil || !file.Result.Patch.HasChanges() {
			continue
		}

		p := file.Result.Patch
		filesWithDiffs++
		totalAdditions += p.Additions
		totalDeletions += p.Deletions
		r.writePatch(p)
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		r.writeSummary(filesWithDiffs, totalAdditions, totalDeletions)
	}

	return filesWithDiffs, nil
}

// writePatch outputs a single file's patch with formatting.
func (r *DiffReporter) writePatch(p *patch.Patch) {
	lines := strings.Split(strings.TrimSuffix(p.FullString(), "\n"), "\n")
	for _, line := range lines {
		r.writeDiffLine(line)
	}
}

// writeDiffLine formats a single diff line with color.
func (r *DiffReporter) writeDiffLine(line string) {
	var styled string

	switch {
	case strings.HasPrefix(line, "diff --git"):
		styled = r.styles.DiffHeader.Render(line)
	case strings.HasPrefix(line, "@@"):
		styled = r.styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "+"):
		styled = r.styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "-"):
		styled = r.styles.DiffRemove.Render(line)
	default:
		styled = r.styles.DiffContext.Render(line)
	}

	fmt.Fprintln(r.out, styled)
}

// writeSummary writes a diffstat-like summary line to the error writer.
func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	var parts []string

	fileWord := "files"
	if files == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("%d %s changed", files, fileWord))

	if additions > 0 {
		insertionWord := "insertions"
		if additions == 1 {
			insertionWord = "insertion"
		}
		parts = append(parts, fmt.Sprintf("%d %s(+)", additions, insertionWord))
	}

	if deletions > 0 {
		deletionWord := "deletions"
		if deletions == 1 {
			deletionWord = "deletion"
		}
		parts = append(parts, fmt.Sprintf("%d %s(-)", deletions, deletionWord))
	}

	fmt.Fprintln(r.opts.ErrorWriter, strings.Join(parts, ", "))
}
