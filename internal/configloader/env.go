package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/gofmtchanged/pkg/config"
)

// envVarPrefix is the prefix for all gofmtchanged environment variables.
const envVarPrefix = "GOFMTCHANGED_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FORMATTER":        {field: "formatter", typ: envTypeString},
	"LOCAL_PREFIX":     {field: "local_prefix", typ: envTypeString},
	"REVISION":         {field: "revision", typ: envTypeString},
	"CONTEXT_SEARCH":   {field: "context_search", typ: envTypeString},
	"FORMAT":           {field: "format", typ: envTypeString},
	"COLOR":            {field: "color", typ: envTypeString},
	"JOBS":             {field: "jobs", typ: envTypeInt},
	"BACKUPS_ENABLED":  {field: "backups.enabled", typ: envTypeBool},
	"NO_BACKUPS":       {field: "no_backups", typ: envTypeBool},
	"INCLUDE_VENDORED": {field: "include_vendored", typ: envTypeBool},
	"IGNORE":           {field: "ignore", typ: envTypeSlice},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOFMTCHANGED_ (e.g., GOFMTCHANGED_FORMATTER).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		parts := parseSliceValue(value)
		return setSliceField(cfg, mapping.field, parts)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "formatter":
		cfg.Formatter = value
	case "local_prefix":
		cfg.LocalPrefix = value
	case "revision":
		cfg.Revision = value
	case "context_search":
		cfg.ContextSearch = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "color":
		cfg.Color = config.ColorMode(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "backups.enabled":
		cfg.Backups.Enabled = &value
	case "no_backups":
		cfg.NoBackups = value
	case "include_vendored":
		cfg.IncludeVendored = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns a list of all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"GOFMTCHANGED_FORMATTER":        "Formatter: gofmt, goimports, none, or a comma-separated chain",
		"GOFMTCHANGED_LOCAL_PREFIX":     "Import prefix grouped after third-party packages (goimports)",
		"GOFMTCHANGED_REVISION":         "Revision range to compare against, e.g. HEAD or main...",
		"GOFMTCHANGED_CONTEXT_SEARCH":   "Context widening: binary, escalate, or sizes like 0,2,8",
		"GOFMTCHANGED_FORMAT":           "Output format: text, json, diff, stdout, or summary",
		"GOFMTCHANGED_COLOR":            "Color output: auto, always, or never",
		"GOFMTCHANGED_JOBS":             "Number of parallel workers (0 = auto)",
		"GOFMTCHANGED_BACKUPS_ENABLED":  "Keep a backup before rewriting: true or false",
		"GOFMTCHANGED_NO_BACKUPS":       "Disable backups: true or false",
		"GOFMTCHANGED_INCLUDE_VENDORED": "Process vendored and generated files: true or false",
		"GOFMTCHANGED_IGNORE":           "Comma-separated list of ignore patterns",
	}
}
