package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yaklabco/gofmtchanged/pkg/reformat"
	"github.com/yaklabco/gofmtchanged/pkg/runner"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path         string       `json:"path"`
	Changed      bool         `json:"changed"`
	Written      bool         `json:"written,omitempty"`
	Backup       bool         `json:"backup,omitempty"`
	Skipped      bool         `json:"skipped,omitempty"`
	SkipReason   string       `json:"skipReason,omitempty"`
	ContextLines int          `json:"contextLines"`
	EditedLines  []int        `json:"editedLines"`
	Attempts     int          `json:"attempts"`
	Additions    int          `json:"additions,omitempty"`
	Deletions    int          `json:"deletions,omitempty"`
	Diff         string       `json:"diff,omitempty"`
	Error        string       `json:"error,omitempty"`
	Failure      *JSONFailure `json:"failure,omitempty"`
}

// JSONFailure describes a file whose reformatting could not keep the syntax
// tree intact.
type JSONFailure struct {
	Attempts     int    `json:"attempts"`
	ContextLines int    `json:"contextLines"`
	EditedLines  []int  `json:"editedLines"`
	Dump         string `json:"dump"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesSelected   int `json:"filesSelected"`
	FilesChecked    int `json:"filesChecked"`
	FilesChanged    int `json:"filesChanged"`
	FilesModified   int `json:"filesModified"`
	FilesSkipped    int `json:"filesSkipped"`
	FilesErrored    int `json:"filesErrored"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := buildJSONOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func buildJSONOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Summary = JSONSummary{
		FilesDiscovered: result.Stats.FilesDiscovered,
		FilesSelected:   result.Stats.FilesSelected,
		FilesChecked:    result.Stats.FilesProcessed,
		FilesChanged:    result.Stats.FilesChanged,
		FilesModified:   result.Stats.FilesModified,
		FilesSkipped:    result.Stats.FilesSkipped,
		FilesErrored:    result.Stats.FilesErrored,
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        displayPath(file),
			EditedLines: []int{},
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			var failure *reformat.FailureError
			if errors.As(file.Error, &failure) {
				fileResult.Failure = &JSONFailure{
					Attempts:     failure.Attempts,
					ContextLines: failure.ContextLines,
					EditedLines:  failure.EditedLines,
					Dump:         failure.Dump(),
				}
			}
		}

		if res := file.Result; res != nil {
			fileResult.Changed = res.Changed
			fileResult.Written = res.Written
			fileResult.Backup = res.BackupCreated
			fileResult.Skipped = res.Skipped
			fileResult.SkipReason = res.SkipReason
			if out := res.Output; out != nil {
				fileResult.ContextLines = out.ContextLines
				fileResult.EditedLines = out.EditedLines
				fileResult.Attempts = out.Attempts
			}
			if res.Patch.HasChanges() {
				fileResult.Additions = res.Patch.Additions
				fileResult.Deletions = res.Patch.Deletions
				fileResult.Diff = res.Patch.String()
			}
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}
