package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gofmtchanged/internal/cli"
	"github.com/yaklabco/gofmtchanged/internal/configloader"
	"github.com/yaklabco/gofmtchanged/pkg/formatter"
	"github.com/yaklabco/gofmtchanged/pkg/pipeline"
	"github.com/yaklabco/gofmtchanged/pkg/runner"
	"github.com/yaklabco/gofmtchanged/pkg/vcs"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "gofmtchanged", cmd.Name())
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRootCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{
		"revision", "check", "diff", "stdout", "stdin-filename", "formatter",
		"local-prefix", "context-search", "jobs", "ignore", "backups", "no-backups", "format",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %q", name)
	}
	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "global flag %q", name)
	}

	assert.Equal(t, "r", cmd.Flags().Lookup("revision").Shorthand)
	assert.Equal(t, "W", cmd.Flags().Lookup("jobs").Shorthand)
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help", "--color", "never"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "--context-search")
	assert.Contains(t, out.String(), "Global Flags:")
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, ".gofmtchanged.toml")

	run := func(args ...string) error {
		cmd := cli.NewRootCommand(testInfo())
		cmd.SetArgs(append([]string{"init"}, args...))
		return cmd.Execute()
	}

	require.NoError(t, run("--format", "toml", "-o", output))
	cfg, err := configloader.LoadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "gofmt", cfg.Formatter)

	err = run("--format", "toml", "-o", output)
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))

	require.NoError(t, run("--format", "toml", "--full", "--force", "-o", output))

	err = run("--format", "json", "-o", filepath.Join(dir, "x.json"))
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"changes", cli.ErrChangesNeeded, cli.ExitChanges},
		{"failed files", cli.ErrFilesFailed, cli.ExitChanges},
		{"missing file", fmt.Errorf("stat x.go: %w", os.ErrNotExist), cli.ExitFileNotFound},
		{"pipeline missing file", pipeline.ErrFileNotFound, cli.ExitFileNotFound},
		{"bad revision", fmt.Errorf("wrap: %w", vcs.ErrRevisionNotFound), cli.ExitUsage},
		{"invalid range", vcs.ErrInvalidRevision, cli.ExitUsage},
		{"not a repository", vcs.ErrNotRepository, cli.ExitUsage},
		{"read-only range", pipeline.ErrReadOnlyRange, cli.ExitUsage},
		{"config", &configloader.ValidationError{Field: "jobs", Message: "bad"}, cli.ExitUsage},
		{"unknown formatter", formatter.ErrUnknownFormatter, cli.ExitUsage},
		{"no formatter", formatter.ErrFormatterUnavailable, cli.ExitMissingDependency},
		{"no git", vcs.ErrGitUnavailable, cli.ExitMissingDependency},
		{"other", errors.New("boom"), cli.ExitUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestResultError(t *testing.T) {
	t.Parallel()

	changed := runner.NewResult(runner.FileOutcome{
		Path:   "a.go",
		Result: &pipeline.Result{Path: "a.go", Changed: true},
	})

	require.NoError(t, cli.ResultError(nil, pipeline.ModeCheck))
	require.NoError(t, cli.ResultError(changed, pipeline.ModeWrite))
	require.ErrorIs(t, cli.ResultError(changed, pipeline.ModeCheck), cli.ErrChangesNeeded)
	require.ErrorIs(t, cli.ResultError(changed, pipeline.ModeDiff), cli.ErrChangesNeeded)

	failed := runner.NewResult(runner.FileOutcome{Path: "b.go", Error: errors.New("broken")})
	require.ErrorIs(t, cli.ResultError(failed, pipeline.ModeWrite), cli.ErrFilesFailed)

	unavailable := runner.NewResult(runner.FileOutcome{Path: "c.go", Error: formatter.ErrFormatterUnavailable})
	assert.Equal(t, cli.ExitMissingDependency, cli.ExitCode(cli.ResultError(unavailable, pipeline.ModeWrite)))
}
