package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gofmtchanged/pkg/config"
	"github.com/yaklabco/gofmtchanged/pkg/formatter"
	"github.com/yaklabco/gofmtchanged/pkg/reformat"
	"github.com/yaklabco/gofmtchanged/pkg/vcs"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.enabled").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown fields).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Formatter != "" {
		if _, err := formatter.New(cfg.Formatter, formatter.Options{}); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "formatter",
				Value:   cfg.Formatter,
				Message: fmt.Sprintf("invalid formatter %q; must be gofmt, goimports, none, or a comma-separated chain", cfg.Formatter),
			})
		}
	}

	if cfg.LocalPrefix != "" && !strings.Contains(cfg.Formatter, formatter.NameGoimports) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "local_prefix",
			Value:   cfg.LocalPrefix,
			Message: "local_prefix only applies to goimports and will be ignored",
		})
	}

	if cfg.ContextSearch != "" {
		if _, err := reformat.ParseContextSearch(cfg.ContextSearch); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "context_search",
				Value:   cfg.ContextSearch,
				Message: err.Error(),
			})
		}
	}

	if cfg.Revision != "" {
		if _, err := vcs.ParseRevisionRange(cfg.Revision, cfg.StdinFilename != ""); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "revision",
				Value:   cfg.Revision,
				Message: err.Error(),
			})
		}
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json, diff, stdout, summary", cfg.Format),
		})
	}

	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.Stdout && cfg.Diff {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "stdout",
			Value:   true,
			Message: "--stdout cannot be combined with --diff",
		})
	}

	validateIgnorePatterns(cfg, result)

	return result
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
