package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gofmtchanged/pkg/formatter"
	"github.com/yaklabco/gofmtchanged/pkg/pipeline"
	"github.com/yaklabco/gofmtchanged/pkg/reformat"
	"github.com/yaklabco/gofmtchanged/pkg/runner"
	"github.com/yaklabco/gofmtchanged/pkg/vcs"
)

const (
	baselineSource = "package p\n\nvar a  = 1\n"
	editedSource   = "package p\n\nvar a  = 1\n\nvar b  = 2\n"
	fixedSource    = "package p\n\nvar a  = 1\n\nvar b = 2\n"
)

// newRunner returns a runner whose provider holds baselineSource at HEAD and
// editedSource in the working tree for each of names.
func newRunner(names ...string) (*runner.Runner, *vcs.Memory) {
	provider := vcs.NewMemory()
	for _, name := range names {
		provider.Set(vcs.DefaultRevision, name, baselineSource)
		provider.Set(vcs.Worktree, name, editedSource)
	}
	return runner.New(pipeline.New(reformat.New(formatter.Gofmt{}, nil), provider)), provider
}

func runOptions(dir string, mode pipeline.Mode) runner.Options {
	opts := runner.Options{
		Paths:      []string{"."},
		WorkingDir: dir,
		Pipeline:   pipeline.DefaultOptions(),
	}
	opts.Pipeline.Mode = mode
	return opts
}

func TestNew(t *testing.T) {
	t.Parallel()

	p := pipeline.New(reformat.New(formatter.Gofmt{}, nil), vcs.NewMemory())
	if runner.New(p).Pipeline != p {
		t.Error("Pipeline not set correctly")
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	r, _ := newRunner()
	result, err := r.Run(context.Background(), runOptions(t.TempDir(), pipeline.ModeCheck))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesDiscovered != 0 || len(result.Files) != 0 {
		t.Errorf("expected empty result, got %+v", result.Stats)
	}
	if result.HasChanges() || result.HasErrors() {
		t.Error("empty run reports changes or errors")
	}
}

func TestRunner_Run_OnlyModifiedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.go":     editedSource,
		"b.go":     baselineSource,
		"sub/c.go": editedSource,
	})

	// b.go has the same content at HEAD and in the working tree.
	r, provider := newRunner("a.go", "sub/c.go")
	provider.Set(vcs.DefaultRevision, "b.go", baselineSource)
	provider.Set(vcs.Worktree, "b.go", baselineSource)

	result, err := r.Run(context.Background(), runOptions(dir, pipeline.ModeWrite))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesDiscovered != 3 {
		t.Errorf("FilesDiscovered = %d, want 3", result.Stats.FilesDiscovered)
	}
	if result.Stats.FilesSelected != 2 {
		t.Errorf("FilesSelected = %d, want 2", result.Stats.FilesSelected)
	}
	if result.Stats.FilesModified != 2 {
		t.Errorf("FilesModified = %d, want 2", result.Stats.FilesModified)
	}
	if len(result.Files) != 2 || result.Files[0].RepoPath != "a.go" || result.Files[1].RepoPath != "sub/c.go" {
		t.Fatalf("unexpected outcomes: %+v", result.Files)
	}

	for _, name := range []string{"a.go", "sub/c.go"} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(content) != fixedSource {
			t.Errorf("%s = %q, want %q", name, content, fixedSource)
		}
	}
}

func TestRunner_Run_CheckMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.go": editedSource})
	r, _ := newRunner("a.go")

	result, err := r.Run(context.Background(), runOptions(dir, pipeline.ModeCheck))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.HasChanges() {
		t.Error("expected HasChanges() = true")
	}
	if result.Stats.FilesModified != 0 {
		t.Errorf("check mode wrote %d files", result.Stats.FilesModified)
	}
	if result.Files[0].Result.Patch == nil {
		t.Error("expected a patch in check mode")
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	names := []string{"a.go", "b.go", "c.go", "d.go", "e.go", "f.go", "g.go", "h.go"}
	files := make(map[string]string, len(names))
	for _, name := range names {
		files[name] = editedSource
	}

	run := func(jobs int) *runner.Result {
		dir := t.TempDir()
		writeTree(t, dir, files)
		r, _ := newRunner(names...)
		opts := runOptions(dir, pipeline.ModeDiff)
		opts.Jobs = jobs
		result, err := r.Run(context.Background(), opts)
		if err != nil {
			t.Fatalf("Run(jobs=%d) error = %v", jobs, err)
		}
		return result
	}

	serial, parallel := run(1), run(4)
	if len(serial.Files) != len(parallel.Files) {
		t.Fatalf("file counts differ: %d vs %d", len(serial.Files), len(parallel.Files))
	}
	for idx := range serial.Files {
		s, p := serial.Files[idx], parallel.Files[idx]
		if s.RepoPath != p.RepoPath {
			t.Errorf("order differs at %d: %s vs %s", idx, s.RepoPath, p.RepoPath)
		}
		if s.Result.Patch.String() != p.Result.Patch.String() {
			t.Errorf("patch for %s differs", s.RepoPath)
		}
	}
	if serial.Stats != parallel.Stats {
		t.Errorf("stats differ: %+v vs %+v", serial.Stats, parallel.Stats)
	}
}

func TestRunner_Run_PerFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	broken := "package p\n\nvar s = `open\n"
	writeTree(t, dir, map[string]string{"a.go": editedSource, "b.go": broken})

	r, provider := newRunner("a.go")
	provider.Set(vcs.Worktree, "b.go", broken)

	result, err := r.Run(context.Background(), runOptions(dir, pipeline.ModeCheck))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesErrored != 1 || result.Stats.FilesProcessed != 1 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
	if !result.HasErrors() {
		t.Error("expected HasErrors() = true")
	}
	if !errors.Is(result.Files[1].Error, pipeline.ErrParseFailure) {
		t.Errorf("b.go error = %v, want parse failure", result.Files[1].Error)
	}
}

func TestRunner_Run_ReadOnlyRange(t *testing.T) {
	t.Parallel()

	r, _ := newRunner()
	opts := runOptions(t.TempDir(), pipeline.ModeWrite)
	opts.Pipeline.Range = vcs.RevisionRange{Rev1: "HEAD~1", Rev2: "HEAD"}

	if _, err := r.Run(context.Background(), opts); !errors.Is(err, pipeline.ErrReadOnlyRange) {
		t.Errorf("Run() error = %v, want ErrReadOnlyRange", err)
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.go": editedSource})
	r, _ := newRunner("a.go")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Run(ctx, runOptions(dir, pipeline.ModeCheck)); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
