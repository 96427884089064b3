package vcs_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gofmtchanged/pkg/vcs"
)

// newRepo creates a repository with one commit containing files.
func newRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	git(t, dir, "init", "-q", "-b", "main")
	git(t, dir, "config", "user.email", "test@example.com")
	git(t, dir, "config", "user.name", "Test")
	git(t, dir, "config", "commit.gpgsign", "false")
	writeFiles(t, dir, files)
	git(t, dir, "add", "-A")
	git(t, dir, "commit", "-q", "-m", "initial")
	return dir
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

func TestGitLines(t *testing.T) {
	t.Parallel()

	dir := newRepo(t, map[string]string{"pkg/a.go": "package a\n\nvar x = 1\n"})
	writeFiles(t, dir, map[string]string{"pkg/a.go": "package a\n\nvar x = 2\n"})

	ctx := context.Background()
	cache := vcs.NewCache()
	repo, err := vcs.NewGit(ctx, dir, cache)
	require.NoError(t, err)

	head, err := repo.Lines(ctx, "pkg/a.go", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, []string{"package a", "", "var x = 1"}, head.Lines())
	assert.Equal(t, 1, cache.Len())

	again, err := repo.Lines(ctx, "pkg/a.go", "HEAD")
	require.NoError(t, err)
	assert.Same(t, head, again)

	worktree, err := repo.Lines(ctx, "pkg/a.go", vcs.Worktree)
	require.NoError(t, err)
	assert.Equal(t, "var x = 2", worktree.Lines()[2])

	missing, err := repo.Lines(ctx, "pkg/new.go", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, 0, missing.Len())
}

func TestGitResolve(t *testing.T) {
	t.Parallel()

	dir := newRepo(t, map[string]string{"a.go": "package a\n"})
	base := git(t, dir, "rev-parse", "HEAD")
	git(t, dir, "checkout", "-q", "-b", "feature")
	writeFiles(t, dir, map[string]string{"a.go": "package a\n\nvar y = 1\n"})
	git(t, dir, "commit", "-q", "-am", "feature")
	feature := git(t, dir, "rev-parse", "HEAD")

	ctx := context.Background()
	repo, err := vcs.NewGit(ctx, dir, nil)
	require.NoError(t, err)

	resolved, err := repo.Resolve(ctx, vcs.RevisionRange{Rev1: "main", Rev2: "feature", UseMergeBase: true})
	require.NoError(t, err)
	assert.Equal(t, vcs.RevisionRange{Rev1: base, Rev2: feature}, resolved)

	resolved, err = repo.Resolve(ctx, vcs.RevisionRange{Rev1: "main", Rev2: vcs.Worktree})
	require.NoError(t, err)
	assert.Equal(t, vcs.RevisionRange{Rev1: base, Rev2: vcs.Worktree}, resolved)

	_, err = repo.Resolve(ctx, vcs.RevisionRange{Rev1: "no-such-branch", Rev2: vcs.Worktree})
	require.ErrorIs(t, err, vcs.ErrRevisionNotFound)
}

func TestGitModifiedPaths(t *testing.T) {
	t.Parallel()

	dir := newRepo(t, map[string]string{
		"a.go":     "package a\n",
		"b.go":     "package b\n",
		"gone.go":  "package gone\n",
		"sub/c.go": "package c\n",
	})
	writeFiles(t, dir, map[string]string{
		"a.go":     "package a\n\nvar x = 1\n",
		"sub/c.go": "package c\n\nvar y = 2\n",
		"new.go":   "package n\n",
	})
	require.NoError(t, os.Remove(filepath.Join(dir, "gone.go")))

	ctx := context.Background()
	repo, err := vcs.NewGit(ctx, dir, nil)
	require.NoError(t, err)

	rng := vcs.RevisionRange{Rev1: "HEAD", Rev2: vcs.Worktree}
	modified, err := repo.ModifiedPaths(ctx, []string{"."}, rng)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "new.go", "sub/c.go"}, modified)

	modified, err = repo.ModifiedPaths(ctx, []string{"sub"}, rng)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/c.go"}, modified)
}

func TestGitRelPath(t *testing.T) {
	t.Parallel()

	dir := newRepo(t, map[string]string{"a.go": "package a\n"})

	ctx := context.Background()
	repo, err := vcs.NewGit(ctx, dir, nil)
	require.NoError(t, err)

	writeFiles(t, dir, map[string]string{"sub/x.go": "package sub\n"})
	rel, err := repo.RelPath(filepath.Join(dir, "sub", "x.go"))
	require.NoError(t, err)
	assert.Equal(t, "sub/x.go", rel)

	_, err = repo.RelPath(filepath.Dir(dir))
	require.Error(t, err)
}

//nolint:paralleltest // Modifies environment.
func TestNewGitOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	_, err := vcs.NewGit(context.Background(), dir, nil)
	require.ErrorIs(t, err, vcs.ErrNotRepository)
}
