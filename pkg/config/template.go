package config

import (
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the serialization of the template.
	Format FileFormat

	// Full writes every setting with its default value instead of a
	// commented-out minimal template.
	Full bool
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gofmtchanged configuration
# See: https://github.com/yaklabco/gofmtchanged`
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		data, err := NewConfig().Encode(opts.Format)
		if err != nil {
			return nil, fmt.Errorf("generate template: %w", err)
		}
		return withHeader(DefaultTemplateHeader(), data), nil
	}

	switch opts.Format {
	case FileFormatTOML:
		return []byte(minimalTOML), nil
	case FileFormatYAML, "":
		return []byte(minimalYAML), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", opts.Format)
	}
}

const minimalYAML = `# gofmtchanged configuration
# See: https://github.com/yaklabco/gofmtchanged

# Formatter: gofmt, goimports, none, or a comma-separated chain
formatter: gofmt

# Revision range to compare against, e.g. HEAD, main..., v1.2..HEAD
# revision: HEAD

# Group imports with this prefix after third-party ones (goimports only)
# local_prefix: github.com/example/project

# Context widening strategy: binary, escalate, or sizes like "0,2,8"
# context_search: binary

# Number of parallel workers (0 = auto)
# jobs: 0

# File patterns to ignore (glob patterns)
# ignore:
#   - "internal/legacy/**"

# Keep a .gofmtchanged.bak copy of each file's content before each rewrite
# backups:
#   enabled: false
`

const minimalTOML = `# gofmtchanged configuration
# See: https://github.com/yaklabco/gofmtchanged

# Formatter: gofmt, goimports, none, or a comma-separated chain
formatter = "gofmt"

# Revision range to compare against, e.g. HEAD, main..., v1.2..HEAD
# revision = "HEAD"

# Group imports with this prefix after third-party ones (goimports only)
# local_prefix = "github.com/example/project"

# Context widening strategy: binary, escalate, or sizes like "0,2,8"
# context_search = "binary"

# Number of parallel workers (0 = auto)
# jobs = 0

# File patterns to ignore (glob patterns)
# ignore = ["internal/legacy/**"]

# Keep a .gofmtchanged.bak copy of each file's content before each rewrite
# [backups]
# enabled = false
`
