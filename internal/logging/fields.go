// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldRepoRoot   = "repo_root"

	// Configuration fields.
	FieldFormatter     = "formatter"
	FieldRevision      = "revision"
	FieldMode          = "mode"
	FieldContextSearch = "context_search"
	FieldJobs          = "jobs"

	// Reformat fields.
	FieldAttempt     = "attempt"
	FieldContext     = "context_lines"
	FieldEditedLines = "edited_lines"
	FieldChunks      = "chunks"
	FieldRev1        = "rev1"
	FieldRev2        = "rev2"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesFailed     = "files_failed"
	FieldFilesModified   = "files_modified"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
