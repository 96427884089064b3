package configloader

import "github.com/yaklabco/gofmtchanged/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if override is non-nil
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans: only true propagates, so a source cannot unset a flag
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Formatter != "" {
		result.Formatter = override.Formatter
	}
	if override.LocalPrefix != "" {
		result.LocalPrefix = override.LocalPrefix
	}
	if override.Revision != "" {
		result.Revision = override.Revision
	}
	if override.ContextSearch != "" {
		result.ContextSearch = override.ContextSearch
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.StdinFilename != "" {
		result.StdinFilename = override.StdinFilename
	}

	if override.Backups.Enabled != nil {
		enabled := *override.Backups.Enabled
		result.Backups.Enabled = &enabled
	}

	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}

	result.IncludeVendored = result.IncludeVendored || override.IncludeVendored
	result.Check = result.Check || override.Check
	result.Diff = result.Diff || override.Diff
	result.Stdout = result.Stdout || override.Stdout
	result.NoBackups = result.NoBackups || override.NoBackups

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
