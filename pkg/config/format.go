package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileFormat is the serialization of a configuration file.
type FileFormat string

const (
	FileFormatYAML FileFormat = "yaml"
	FileFormatTOML FileFormat = "toml"
)

// DetectFileFormat picks the serialization from a file name. Anything that
// is not .toml is read as YAML.
func DetectFileFormat(path string) FileFormat {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FileFormatTOML
	}
	return FileFormatYAML
}

// Decode parses data in the given format.
func Decode(format FileFormat, data []byte) (*Config, error) {
	switch format {
	case FileFormatTOML:
		return FromTOML(data)
	case FileFormatYAML, "":
		return FromYAML(data)
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

// Encode serializes c in the given format.
func (c *Config) Encode(format FileFormat) ([]byte, error) {
	switch format {
	case FileFormatTOML:
		return c.ToTOML()
	case FileFormatYAML, "":
		return c.ToYAML()
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}
