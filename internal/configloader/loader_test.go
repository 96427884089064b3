package configloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/gofmtchanged/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}

	if result.Config.Formatter != "gofmt" {
		t.Errorf("expected formatter %q, got %q", "gofmt", result.Config.Formatter)
	}
	if result.Config.Revision != "HEAD" {
		t.Errorf("expected revision %q, got %q", "HEAD", result.Config.Revision)
	}
	if result.Config.BackupsEnabled() {
		t.Error("expected backups disabled by default")
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no files loaded, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := writeConfig(t, tmpDir, ".gofmtchanged.yml", `
formatter: goimports
local_prefix: example.com/project
jobs: 3
backups:
  enabled: true
`)

	result, err := Load(context.Background(), isolated(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Formatter != "goimports" {
		t.Errorf("expected formatter goimports, got %q", cfg.Formatter)
	}
	if cfg.LocalPrefix != "example.com/project" {
		t.Errorf("expected local prefix, got %q", cfg.LocalPrefix)
	}
	if cfg.Jobs != 3 {
		t.Errorf("expected jobs 3, got %d", cfg.Jobs)
	}
	if !cfg.BackupsEnabled() {
		t.Error("expected backups enabled by project config")
	}
	if len(result.LoadedFrom) != 1 || result.LoadedFrom[0] != configPath {
		t.Errorf("expected LoadedFrom [%s], got %v", configPath, result.LoadedFrom)
	}
}

func TestLoad_TOMLProjectConfigFromSubdirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, root, ".gofmtchanged.toml", `
revision = "main..."
context_search = "escalate"
`)
	sub := filepath.Join(root, "pkg", "a")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), isolated(sub))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Revision != "main..." {
		t.Errorf("expected revision main..., got %q", result.Config.Revision)
	}
	if result.Config.ContextSearch != "escalate" {
		t.Errorf("expected context search escalate, got %q", result.Config.ContextSearch)
	}
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeConfig(t, outer, ".gofmtchanged.yml", "formatter: none\n")
	repo := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if path != "" {
		t.Errorf("expected search to stop at repository root, found %s", path)
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".gofmtchanged.yml", "formatter: goimports\njobs: 2\n")
	customPath := writeConfig(t, tmpDir, "custom.yml", "formatter: gofmt,goimports\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = customPath

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Formatter != "gofmt,goimports" {
		t.Errorf("expected explicit formatter, got %q", result.Config.Formatter)
	}
	if result.Config.Jobs != 2 {
		t.Errorf("expected jobs 2 from project config, got %d", result.Config.Jobs)
	}
	if len(result.LoadedFrom) != 2 {
		t.Errorf("expected two loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".gofmtchanged.yml", "formatter: goimports\njobs: 2\nbackups:\n  enabled: true\n")

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{Formatter: "gofmt", Jobs: 8, Check: true, NoBackups: true}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Formatter != "gofmt" {
		t.Errorf("expected formatter gofmt (CLI override), got %q", result.Config.Formatter)
	}
	if result.Config.Jobs != 8 {
		t.Errorf("expected jobs 8 (CLI override), got %d", result.Config.Jobs)
	}
	if !result.Config.Check {
		t.Error("expected check true (CLI override)")
	}
	if result.Config.BackupsEnabled() {
		t.Error("expected --no-backups to disable backups")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"formatter", "formatter: black\n", "formatter"},
		{"context search", "context_search: \"3,1\"\n", "context_search"},
		{"revision", "revision: \":WORKTREE:\"\n", "revision"},
		{"format", "format: sarif\n", "format"},
		{"jobs", "jobs: -1\n", "jobs"},
		{"ignore", "ignore: [\"[\"]\n", "ignore[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			path := writeConfig(t, tmpDir, ".gofmtchanged.yml", tt.content)

			_, err := Load(context.Background(), isolated(tmpDir))
			if err == nil {
				t.Fatal("expected validation error")
			}
			msg := err.Error()
			if !strings.Contains(msg, path) || !strings.Contains(msg, tt.field) {
				t.Errorf("error %q should name %s and %s", msg, path, tt.field)
			}
		})
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, ".gofmtchanged.yml", "formater: gofmt\n")

	if _, err := Load(context.Background(), isolated(tmpDir)); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	opts := isolated(t.TempDir())
	opts.CLIConfig = &config.Config{LocalPrefix: "example.com"}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "local_prefix") {
		t.Errorf("expected local_prefix warning, got %v", result.Warnings)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolated(t.TempDir())); err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOFMTCHANGED_FORMATTER", "goimports")
	t.Setenv("GOFMTCHANGED_JOBS", "6")
	t.Setenv("GOFMTCHANGED_IGNORE", "gen/**, ,mocks/**")
	t.Setenv("GOFMTCHANGED_BACKUPS_ENABLED", "true")

	cfg := config.NewConfig()
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Formatter != "goimports" {
		t.Errorf("expected formatter goimports, got %q", cfg.Formatter)
	}
	if cfg.Jobs != 6 {
		t.Errorf("expected jobs 6, got %d", cfg.Jobs)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[0] != "gen/**" || cfg.Ignore[1] != "mocks/**" {
		t.Errorf("unexpected ignore patterns %v", cfg.Ignore)
	}
	if !cfg.BackupsEnabled() {
		t.Error("expected backups enabled from environment")
	}
}

func TestLoadFromEnv_InvalidValue(t *testing.T) {
	t.Setenv("GOFMTCHANGED_JOBS", "many")

	if err := LoadFromEnv(config.NewConfig()); err == nil {
		t.Fatal("expected error for invalid integer")
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	enabled := true
	got := MergeAll(
		config.NewConfig(),
		&config.Config{Ignore: []string{"a/**"}, Backups: config.BackupsConfig{Enabled: &enabled}},
		&config.Config{Ignore: []string{"b/**"}, Diff: true},
	)

	if len(got.Ignore) != 1 || got.Ignore[0] != "b/**" {
		t.Errorf("expected later slice to replace earlier, got %v", got.Ignore)
	}
	if !got.BackupsEnabled() {
		t.Error("expected explicit enable to survive a later unset value")
	}
	if !got.Diff {
		t.Error("expected diff to be set")
	}
	if got.Formatter != "gofmt" {
		t.Errorf("expected default formatter to survive, got %q", got.Formatter)
	}
	if MergeAll() != nil {
		t.Error("expected nil for no configs")
	}
}
