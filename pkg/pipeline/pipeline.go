// Package pipeline processes a single file: it loads the edited content and
// its baseline, reformats the edited regions and then checks, diffs, prints or
// safely writes back the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/gofmtchanged/internal/logging"
	"github.com/yaklabco/gofmtchanged/pkg/fsutil"
	"github.com/yaklabco/gofmtchanged/pkg/gosyntax"
	"github.com/yaklabco/gofmtchanged/pkg/patch"
	"github.com/yaklabco/gofmtchanged/pkg/reformat"
	"github.com/yaklabco/gofmtchanged/pkg/textdoc"
	"github.com/yaklabco/gofmtchanged/pkg/vcs"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates the edited file is not valid Go.
	ErrParseFailure = errors.New("parse failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")

	// ErrInvalidMode is returned for an unknown output mode.
	ErrInvalidMode = errors.New("invalid output mode")

	// ErrReadOnlyRange is returned when files would be written for a range
	// that does not end at the working tree.
	ErrReadOnlyRange = errors.New("revision range is read-only")
)

// File identifies one file to process.
type File struct {
	// Path is the file on disk.
	Path string

	// RepoPath is the path as known to the content provider. Defaults to
	// Path.
	RepoPath string
}

func (f File) repoPath() string {
	if f.RepoPath == "" {
		return f.Path
	}
	return f.RepoPath
}

// Result contains the result of processing a single file.
type Result struct {
	// Path is the provider path of the file, used for display.
	Path string

	// Original is the edited content before reformatting.
	Original *textdoc.Document

	// Output is the reformatter output. Output.Document holds the new content.
	Output *reformat.Output

	// Changed is true if reformatting changed the content.
	Changed bool

	// Patch is the unified diff in ModeDiff and ModeCheck.
	Patch *patch.Patch

	// Skipped is true if the file was left alone, e.g. because it changed on
	// disk while being processed.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool
}

// Content returns the reformatted content, or the original when nothing
// changed.
func (r *Result) Content() *textdoc.Document {
	if r.Output != nil && r.Output.Document != nil {
		return r.Output.Document
	}
	return r.Original
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "reformatted (backup created)"
	case r.Written:
		return "reformatted"
	case r.Changed:
		return "would reformat"
	default:
		return "unchanged"
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	// Reformatter reformats the edited regions.
	Reformatter *reformat.Reformatter

	// Provider supplies baselines.
	Provider vcs.ContentProvider
}

// New creates a pipeline.
func New(reformatter *reformat.Reformatter, provider vcs.ContentProvider) *Pipeline {
	return &Pipeline{Reformatter: reformatter, Provider: provider}
}

// ProcessFile runs the full pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and snapshot the edited file, or take it from Range.Rev2.
//  2. Fetch the baseline from Range.Rev1.
//  3. Reformat the edited regions.
//  4. Produce a diff for check and diff modes, stop for stdout.
//  5. Check for concurrent modifications.
//  6. Create a backup if enabled.
//  7. Write the new content atomically in the original encoding.
func (p *Pipeline) ProcessFile(ctx context.Context, file File, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var (
		edited *textdoc.Document
		snap   *fsutil.Snapshot
		err    error
	)
	if opts.rev2() == vcs.Worktree {
		edited, snap, err = fsutil.ReadDocument(ctx, file.Path)
	} else {
		edited, err = p.Provider.Lines(ctx, file.repoPath(), opts.rev2())
	}
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.reformat(ctx, file, edited, opts)
	if err != nil || !result.Changed || !opts.Mode.Writes() {
		return result, err
	}

	// Step 5: Check for concurrent modifications before writing.
	modified, err := snap.Changed(ctx)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	// Step 6: Create backup if enabled.
	if opts.Backup {
		created, err := fsutil.CreateBackup(ctx, file.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
		}
		result.BackupCreated = created
	}

	// Step 7: Write the new content atomically.
	if err := fsutil.WriteDocument(ctx, file.Path, result.Output.Document, snap.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	logging.FromContext(ctx).Debug("file written",
		logging.FieldPath, file.Path,
		logging.FieldContext, result.Output.ContextLines)
	return result, nil
}

// ProcessContent processes in-memory content without file I/O, such as
// content read from standard input. ModeWrite is not supported.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	file File,
	edited *textdoc.Document,
	opts Options,
) (*Result, error) {
	if opts.Mode.Writes() {
		return nil, fmt.Errorf("%w: in-memory content cannot be written in place", ErrInvalidMode)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return p.reformat(ctx, file, edited, opts)
}

func (p *Pipeline) reformat(
	ctx context.Context,
	file File,
	edited *textdoc.Document,
	opts Options,
) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	path := file.repoPath()
	baseline, err := p.Provider.Lines(ctx, path, opts.Range.Rev1)
	if err != nil {
		return nil, fmt.Errorf("baseline of %s: %w", path, err)
	}

	out, err := p.Reformatter.Reformat(ctx, reformat.Input{
		Path:     path,
		Baseline: baseline,
		Edited:   edited,
	})
	if err != nil {
		return nil, categorizeError(err)
	}

	result := &Result{
		Path:     path,
		Original: edited,
		Output:   out,
		Changed:  out.Changed,
	}
	if result.Changed && (opts.Mode == ModeDiff || opts.Mode == ModeCheck) {
		result.Patch = patch.Generate(path, edited.Lines(), out.Document.Lines())
	}
	return result, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
// It uses errors.Is for robust error detection rather than string matching.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	if errors.Is(err, gosyntax.ErrInvalidSource) {
		return fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure)
}
