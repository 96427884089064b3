// Package config defines the configuration types for gofmtchanged.
// These types are plain data structures; discovery and merging live in the
// configloader package.
package config

// OutputFormat specifies how results are reported.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatStdout  OutputFormat = "stdout"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff, FormatStdout, FormatSummary:
		return true
	default:
		return false
	}
}

// ColorMode controls colored output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// BackupsConfig controls backup behavior when rewriting files.
type BackupsConfig struct {
	// Enabled is nil when no source set it, so that a lower-precedence
	// "false" is not lost when merging.
	Enabled *bool `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	// Formatter names the formatter: "gofmt", "goimports", "none" or a
	// comma-separated chain.
	Formatter string `yaml:"formatter,omitempty" toml:"formatter,omitempty"`

	// LocalPrefix is passed to goimports to group local imports.
	LocalPrefix string `yaml:"local_prefix,omitempty" toml:"local_prefix,omitempty"`

	// Revision is the revision range compared against, e.g. "HEAD" or
	// "main...".
	Revision string `yaml:"revision,omitempty" toml:"revision,omitempty"`

	// ContextSearch selects how context lines are widened: "binary",
	// "escalate" or a list of sizes such as "0,2,8".
	ContextSearch string `yaml:"context_search,omitempty" toml:"context_search,omitempty"`

	// Jobs is the number of files processed in parallel (0 = GOMAXPROCS).
	Jobs int `yaml:"jobs,omitempty" toml:"jobs,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// IncludeVendored also processes vendored and generated files found
	// while walking directories.
	IncludeVendored bool `yaml:"include_vendored,omitempty" toml:"include_vendored,omitempty"`

	// Backups configures sidecar backups.
	Backups BackupsConfig `yaml:"backups,omitempty" toml:"backups,omitempty"`

	// Format is the output format.
	Format OutputFormat `yaml:"format,omitempty" toml:"format,omitempty"`

	// Color controls colored output.
	Color ColorMode `yaml:"color,omitempty" toml:"color,omitempty"`

	// CLI-level options (not persisted to config files).

	// Check reports files that need reformatting without writing them.
	Check bool `yaml:"-" toml:"-"`

	// Diff prints a patch instead of writing files.
	Diff bool `yaml:"-" toml:"-"`

	// Stdout prints the reformatted content instead of writing it.
	Stdout bool `yaml:"-" toml:"-"`

	// StdinFilename is the path that standard input stands in for.
	StdinFilename string `yaml:"-" toml:"-"`

	// NoBackups disables backup creation.
	NoBackups bool `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	enabled := false
	return &Config{
		Formatter:     "gofmt",
		Revision:      "HEAD",
		ContextSearch: "binary",
		Backups:       BackupsConfig{Enabled: &enabled},
		Format:        FormatText,
		Color:         ColorAuto,
		Jobs:          0, // 0 means use GOMAXPROCS
	}
}

// BackupsEnabled reports whether backups should be written. Backups are off
// unless enabled explicitly, and NoBackups always turns them off.
func (c *Config) BackupsEnabled() bool {
	if c == nil || c.NoBackups {
		return false
	}
	return c.Backups.Enabled != nil && *c.Backups.Enabled
}
