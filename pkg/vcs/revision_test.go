package vcs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gofmtchanged/pkg/vcs"
)

func TestParseRevisionRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec    string
		stdin   bool
		want    vcs.RevisionRange
		wantErr bool
	}{
		{spec: "", want: vcs.RevisionRange{Rev1: "HEAD", Rev2: vcs.Worktree}},
		{spec: "HEAD~2", want: vcs.RevisionRange{Rev1: "HEAD~2", Rev2: vcs.Worktree}},
		{spec: "main..feature", want: vcs.RevisionRange{Rev1: "main", Rev2: "feature"}},
		{spec: "main...feature", want: vcs.RevisionRange{Rev1: "main", Rev2: "feature", UseMergeBase: true}},
		{spec: "main...", want: vcs.RevisionRange{Rev1: "main", Rev2: vcs.Worktree, UseMergeBase: true}},
		{spec: "..feature", want: vcs.RevisionRange{Rev1: "HEAD", Rev2: "feature"}},
		{spec: "v1.0..:WORKTREE:", want: vcs.RevisionRange{Rev1: "v1.0", Rev2: vcs.Worktree}},
		{spec: "", stdin: true, want: vcs.RevisionRange{Rev1: "HEAD", Rev2: vcs.Stdin}},
		{spec: "main", stdin: true, want: vcs.RevisionRange{Rev1: "main", Rev2: vcs.Stdin}},
		{spec: ":WORKTREE:", wantErr: true},
		{spec: ":WORKTREE:..HEAD", wantErr: true},
		{spec: "HEAD..:STDIN:", wantErr: true},
		{spec: "main..feature", stdin: true, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.spec, func(t *testing.T) {
			t.Parallel()

			got, err := vcs.ParseRevisionRange(tc.spec, tc.stdin)
			if tc.wantErr {
				require.ErrorIs(t, err, vcs.ErrInvalidRevision)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

//nolint:paralleltest // Modifies environment.
func TestParseRevisionRangePreCommit(t *testing.T) {
	t.Setenv("PRE_COMMIT_FROM_REF", "abc123")
	t.Setenv("PRE_COMMIT_TO_REF", "def456")

	got, err := vcs.ParseRevisionRange(vcs.PreCommit, false)
	require.NoError(t, err)
	assert.Equal(t, vcs.RevisionRange{Rev1: "abc123", Rev2: "def456", UseMergeBase: true}, got)
	assert.True(t, got.IsCommitRange())
	assert.Equal(t, "abc123...def456", got.String())
}

//nolint:paralleltest // Modifies environment.
func TestParseRevisionRangePreCommitFallback(t *testing.T) {
	t.Setenv("PRE_COMMIT_FROM_REF", "")
	t.Setenv("PRE_COMMIT_TO_REF", "")
	t.Setenv("PRE_COMMIT_SOURCE", "")
	t.Setenv("PRE_COMMIT_ORIGIN", "")

	got, err := vcs.ParseRevisionRange(vcs.PreCommit, false)
	require.NoError(t, err)
	assert.Equal(t, vcs.RevisionRange{Rev1: "HEAD", Rev2: vcs.Worktree}, got)
	assert.False(t, got.IsCommitRange())
}

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	mem := vcs.NewMemory()
	mem.Set("HEAD", "a.go", "package a\n")
	mem.Set(vcs.Worktree, "a.go", "package a\n\nvar x = 1\n")
	mem.Set("HEAD", "b.go", "package b\n")
	mem.Set(vcs.Worktree, "b.go", "package b\n")
	mem.Set(vcs.Worktree, "c.go", "package c\n")

	doc, err := mem.Lines(ctx, "a.go", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, []string{"package a"}, doc.Lines())

	missing, err := mem.Lines(ctx, "c.go", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, 0, missing.Len())

	modified, err := mem.ModifiedPaths(ctx, []string{"c.go", "b.go", "a.go"}, vcs.RevisionRange{Rev1: "HEAD", Rev2: vcs.Worktree})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "c.go"}, modified)
}
