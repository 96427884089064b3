package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gofmtchanged/internal/logging"
	"github.com/yaklabco/gofmtchanged/pkg/config"
	"github.com/yaklabco/gofmtchanged/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a gofmtchanged configuration file",
		Long: `Create a .gofmtchanged.yml configuration file in the current directory.
The file is picked up by every run inside the repository.

Examples:
  gofmtchanged init                      Create a commented .gofmtchanged.yml
  gofmtchanged init --full               Write every setting with its default
  gofmtchanged init --format toml        Create .gofmtchanged.toml instead
  gofmtchanged init -o ci/fmt.yml        Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every setting with its default value")
	cmd.Flags().StringVar(&flags.format, "format", string(config.FileFormatYAML), "file format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default: .gofmtchanged.yml or .gofmtchanged.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	format := config.FileFormat(flags.format)
	if format != config.FileFormatYAML && format != config.FileFormatTOML {
		return fmt.Errorf("%w: invalid format %q: must be yaml or toml", ErrUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".gofmtchanged.yml"
		if format == config.FileFormatTOML {
			outputPath = ".gofmtchanged.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full, Format: format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(cmd.Context(), absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	return nil
}
