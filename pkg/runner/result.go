package runner

import "github.com/yaklabco/gofmtchanged/pkg/pipeline"

// FileOutcome wraps a pipeline result with resolved path metadata.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// RepoPath is the path relative to the repository root.
	RepoPath string

	// Result contains the pipeline result for this file.
	// May be nil if the file encountered an error during processing.
	Result *pipeline.Result

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of Go files found during discovery.
	FilesDiscovered int

	// FilesSelected is the number of discovered files modified in the
	// revision range.
	FilesSelected int

	// FilesProcessed is the number of files successfully processed.
	FilesProcessed int

	// FilesChanged is the number of files whose reformatted content differs.
	FilesChanged int

	// FilesSkipped is the number of files skipped (e.g., due to concurrent modification).
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesModified is the number of files written to disk.
	FilesModified int

	// BackupsCreated is the number of backups written.
	BackupsCreated int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasChanges reports whether any file needed reformatting.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || len(r.Errors) > 0
}

// NewResult builds a Result from outcomes produced outside Run, such as a
// single file read from standard input.
func NewResult(outcomes ...FileOutcome) *Result {
	result := &Result{Files: make([]FileOutcome, 0, len(outcomes))}
	for _, outcome := range outcomes {
		result.Stats.FilesDiscovered++
		result.Stats.FilesSelected++
		result.accumulate(outcome)
	}
	return result
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++

	if outcome.Result.Changed {
		r.Stats.FilesChanged++
	}

	if outcome.Result.Skipped {
		r.Stats.FilesSkipped++
	}

	if outcome.Result.Written {
		r.Stats.FilesModified++
	}

	if outcome.Result.BackupCreated {
		r.Stats.BackupsCreated++
	}
}
