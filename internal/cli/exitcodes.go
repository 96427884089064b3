package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/gofmtchanged/internal/configloader"
	"github.com/yaklabco/gofmtchanged/pkg/formatter"
	"github.com/yaklabco/gofmtchanged/pkg/pipeline"
	"github.com/yaklabco/gofmtchanged/pkg/reformat"
	"github.com/yaklabco/gofmtchanged/pkg/runner"
	"github.com/yaklabco/gofmtchanged/pkg/vcs"
)

// Exit codes for gofmtchanged.
const (
	// ExitSuccess indicates no changes were needed, or all were written.
	ExitSuccess = 0

	// ExitChanges indicates files need reformatting (--check or --diff) or
	// some files could not be processed.
	ExitChanges = 1

	// ExitFileNotFound indicates a path on the command line does not exist.
	ExitFileNotFound = 2

	// ExitUsage indicates invalid command line options, configuration or
	// revisions.
	ExitUsage = 3

	// ExitMissingDependency indicates that git or a formatter is unavailable.
	ExitMissingDependency = 4

	// ExitUnknown indicates an unexpected internal error.
	ExitUnknown = 123
)

var (
	// ErrChangesNeeded is returned in check and diff modes when at least
	// one file would be reformatted.
	ErrChangesNeeded = errors.New("files need reformatting")

	// ErrFilesFailed is returned when some files could not be processed.
	ErrFilesFailed = errors.New("some files could not be reformatted")

	// ErrUsage marks invalid flag combinations.
	ErrUsage = errors.New("invalid usage")
)

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrChangesNeeded), errors.Is(err, ErrFilesFailed):
		return ExitChanges
	case errors.Is(err, formatter.ErrFormatterUnavailable), errors.Is(err, vcs.ErrGitUnavailable):
		return ExitMissingDependency
	case errors.Is(err, pipeline.ErrFileNotFound), errors.Is(err, fs.ErrNotExist):
		return ExitFileNotFound
	case errors.Is(err, ErrUsage),
		errors.As(err, &validation),
		errors.Is(err, vcs.ErrInvalidRevision),
		errors.Is(err, vcs.ErrRevisionNotFound),
		errors.Is(err, vcs.ErrNotRepository),
		errors.Is(err, pipeline.ErrInvalidMode),
		errors.Is(err, pipeline.ErrReadOnlyRange),
		errors.Is(err, reformat.ErrInvalidContextSearch),
		errors.Is(err, formatter.ErrUnknownFormatter):
		return ExitUsage
	default:
		return ExitUnknown
	}
}

// ResultError converts a finished run into the error the root command
// returns: nil when nothing needs attention.
func ResultError(result *runner.Result, mode pipeline.Mode) error {
	if result == nil {
		return nil
	}

	for _, file := range result.Files {
		if file.Error != nil && errors.Is(file.Error, formatter.ErrFormatterUnavailable) {
			return file.Error
		}
	}
	if result.HasErrors() {
		return ErrFilesFailed
	}
	if result.HasChanges() && (mode == pipeline.ModeCheck || mode == pipeline.ModeDiff) {
		return ErrChangesNeeded
	}
	return nil
}
