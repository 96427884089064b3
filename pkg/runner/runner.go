package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gofmtchanged/internal/logging"
	"github.com/yaklabco/gofmtchanged/pkg/pipeline"
)

// pathBatch bounds the number of paths handed to the provider per call so
// that git command lines stay short.
const pathBatch = 512

// relPather maps file paths to the paths a content provider expects.
type relPather interface {
	RelPath(path string) (string, error)
}

// Runner orchestrates multi-file reformatting using a pipeline.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *pipeline.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(p *pipeline.Pipeline) *Runner {
	return &Runner{Pipeline: p}
}

// Run discovers files under opts.Paths and reformats those modified in the
// revision range concurrently. It returns a deterministic collection of
// FileOutcome values and aggregate stats.
//
// The runner:
//   - Discovers Go files matching the options criteria
//   - Keeps the files the content provider reports as modified
//   - Processes files concurrently, at most opts.Jobs at a time
//   - Aggregates results into a single Result with statistics
//   - Respects context cancellation; files already started are finished
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	if err := opts.Pipeline.Validate(); err != nil {
		return nil, err
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	targets, err := r.selectModified(ctx, files, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.FilesSelected = len(targets)

	logger.Debug("files selected",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldFiles, len(targets),
		logging.FieldRevision, opts.Pipeline.Range.String())

	if len(targets) == 0 {
		return result, nil
	}

	// Determine job count.
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(targets))

	outcomes := make([]FileOutcome, len(targets))
	started := make([]bool, len(targets))

	var group errgroup.Group
	group.SetLimit(jobs)
	for idx, file := range targets {
		if ctx.Err() != nil {
			break
		}
		started[idx] = true
		group.Go(func() error {
			outcome := FileOutcome{Path: file.Path, RepoPath: file.RepoPath}
			res, err := r.Pipeline.ProcessFile(ctx, file, opts.Pipeline)
			if err != nil {
				logger.Debug("file failed", logging.FieldPath, file.Path, logging.FieldError, err)
				outcome.Error = err
			} else {
				outcome.Result = res
			}
			outcomes[idx] = outcome
			return nil
		})
	}
	_ = group.Wait()

	// Build result in deterministic order.
	for idx, outcome := range outcomes {
		if started[idx] {
			result.accumulate(outcome)
		}
	}

	// Check for context error.
	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// selectModified pairs discovered files with their provider paths and keeps
// those modified in the revision range, preserving order.
func (r *Runner) selectModified(ctx context.Context, files []string, opts Options) ([]pipeline.File, error) {
	if len(files) == 0 {
		return nil, nil
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	candidates := make([]pipeline.File, 0, len(files))
	for _, path := range files {
		repoPath, err := r.repoPath(workDir, path)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, pipeline.File{Path: path, RepoPath: repoPath})
	}

	modified := make(map[string]struct{}, len(candidates))
	for start := 0; start < len(candidates); start += pathBatch {
		end := min(start+pathBatch, len(candidates))
		batch := make([]string, 0, end-start)
		for _, file := range candidates[start:end] {
			batch = append(batch, file.RepoPath)
		}
		paths, err := r.Pipeline.Provider.ModifiedPaths(ctx, batch, opts.Pipeline.Range)
		if err != nil {
			return nil, fmt.Errorf("modified paths: %w", err)
		}
		for _, path := range paths {
			modified[path] = struct{}{}
		}
	}

	targets := candidates[:0]
	for _, file := range candidates {
		if _, ok := modified[file.RepoPath]; ok {
			targets = append(targets, file)
		}
	}
	return targets, nil
}

func (r *Runner) repoPath(workDir, path string) (string, error) {
	if rp, ok := r.Pipeline.Provider.(relPather); ok {
		rel, err := rp.RelPath(path)
		if err != nil {
			return "", fmt.Errorf("repository path of %s: %w", path, err)
		}
		return rel, nil
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}
