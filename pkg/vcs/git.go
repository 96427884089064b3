package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/yaklabco/gofmtchanged/internal/logging"
	"github.com/yaklabco/gofmtchanged/pkg/textdoc"
)

// Git reads revisions from the git repository containing Root. Paths passed
// to its methods are relative to Root.
type Git struct {
	// Root is the top level directory of the working tree.
	Root string

	cache *Cache
}

// NewGit locates the repository containing dir. cache may be nil.
func NewGit(ctx context.Context, dir string, cache *Cache) (*Git, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, ErrGitUnavailable
	}
	if cache == nil {
		cache = NewCache()
	}

	out, err := runGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotRepository, dir, err)
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
	}
	return &Git{Root: filepath.Clean(root), cache: cache}, nil
}

// RelPath converts a path relative to the current directory, or absolute,
// into a path relative to Root.
func (g *Git) RelPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	// Root comes from git and has symlinks resolved.
	if resolved, evalErr := filepath.EvalSymlinks(filepath.Dir(abs)); evalErr == nil {
		abs = filepath.Join(resolved, filepath.Base(abs))
	}
	rel, err := filepath.Rel(g.Root, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository at %s", path, g.Root)
	}
	return filepath.ToSlash(rel), nil
}

// Resolve verifies both revisions of rng and, when UseMergeBase is set,
// replaces Rev1 with the merge base of the two. Pseudo revisions are kept.
func (g *Git) Resolve(ctx context.Context, rng RevisionRange) (RevisionRange, error) {
	rev1, err := g.resolveRevision(ctx, rng.Rev1)
	if err != nil {
		return RevisionRange{}, err
	}
	rev2 := rng.Rev2
	if rng.IsCommitRange() {
		if rev2, err = g.resolveRevision(ctx, rng.Rev2); err != nil {
			return RevisionRange{}, err
		}
	}
	if !rng.UseMergeBase {
		return RevisionRange{Rev1: rev1, Rev2: rev2}, nil
	}

	other := rev2
	if !rng.IsCommitRange() {
		other = "HEAD"
	}
	out, err := g.run(ctx, "merge-base", rev1, other)
	if err != nil {
		return RevisionRange{}, fmt.Errorf("%w: merge base of %s and %s: %w", ErrRevisionNotFound, rng.Rev1, rng.Rev2, err)
	}
	return RevisionRange{Rev1: strings.TrimSpace(string(out)), Rev2: rev2}, nil
}

func (g *Git) resolveRevision(ctx context.Context, rev string) (string, error) {
	if hash, ok := g.cache.revision(rev); ok {
		return hash, nil
	}
	out, err := g.run(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrRevisionNotFound, rev)
	}
	hash := strings.TrimSpace(string(out))
	g.cache.storeRevision(rev, hash)
	return hash, nil
}

// Lines implements ContentProvider. Worktree content is read from disk;
// committed content is cached per revision.
func (g *Git) Lines(ctx context.Context, path, rev string) (*textdoc.Document, error) {
	if rev == Worktree {
		doc, err := textdoc.FromFile(filepath.Join(g.Root, filepath.FromSlash(path)))
		if errors.Is(err, os.ErrNotExist) {
			return textdoc.Empty(), nil
		}
		return doc, err
	}
	if rev == Stdin {
		return nil, fmt.Errorf("%w: %s content is not stored in git", ErrInvalidRevision, Stdin)
	}

	if doc, ok := g.cache.content(rev, path); ok {
		return doc, nil
	}

	out, err := g.run(ctx, "show", rev+":./"+path)
	if err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "does not exist in") && !strings.Contains(msg, "exists on disk, but not in") {
			return nil, fmt.Errorf("show %s at %s: %w", path, rev, err)
		}
		logging.FromContext(ctx).Debug("path missing at revision",
			logging.FieldPath, path, logging.FieldRevision, rev)
		doc := textdoc.Empty()
		g.cache.storeContent(rev, path, doc)
		return doc, nil
	}

	doc, err := textdoc.FromBytes(out)
	if err != nil {
		return nil, fmt.Errorf("%s at %s: %w", path, rev, err)
	}
	g.cache.storeContent(rev, path, doc)
	return doc, nil
}

// ModifiedPaths implements ContentProvider using git diff, plus untracked
// files when the range ends at the working tree.
func (g *Git) ModifiedPaths(ctx context.Context, paths []string, rng RevisionRange) ([]string, error) {
	if rng.Rev2 == Stdin {
		return slices.Clone(paths), nil
	}

	args := []string{"diff", "-U0", "--no-color", "--no-ext-diff", "--relative", rng.Rev1}
	if rng.IsCommitRange() {
		args = append(args, rng.Rev2)
	}
	args = append(args, "--")
	args = append(args, paths...)

	out, err := g.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", rng, err)
	}
	files, _, err := gitdiff.Parse(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("parse diff %s: %w", rng, err)
	}

	modified := make([]string, 0, len(files))
	for _, file := range files {
		if file.IsDelete || file.IsBinary {
			continue
		}
		modified = append(modified, file.NewName)
	}

	if !rng.IsCommitRange() {
		untracked, err := g.untracked(ctx, paths)
		if err != nil {
			return nil, err
		}
		modified = append(modified, untracked...)
	}

	slices.Sort(modified)
	return slices.Compact(modified), nil
}

func (g *Git) untracked(ctx context.Context, paths []string) ([]string, error) {
	args := append([]string{"ls-files", "--others", "--exclude-standard", "--"}, paths...)
	out, err := g.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("list untracked files: %w", err)
	}
	var files []string
	for line := range strings.Lines(string(out)) {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func (g *Git) run(ctx context.Context, args ...string) ([]byte, error) {
	return runGit(ctx, g.Root, args...)
}

// runGit runs git in dir with a stable locale so error messages can be
// matched. stderr is folded into the returned error.
func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "LC_ALL=C", "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.FromContext(ctx).Debug("running git", "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %s: %w", args[0], msg, err)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}
