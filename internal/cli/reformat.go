package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gofmtchanged/internal/configloader"
	"github.com/yaklabco/gofmtchanged/internal/logging"
	"github.com/yaklabco/gofmtchanged/pkg/config"
	"github.com/yaklabco/gofmtchanged/pkg/formatter"
	"github.com/yaklabco/gofmtchanged/pkg/pipeline"
	"github.com/yaklabco/gofmtchanged/pkg/reformat"
	"github.com/yaklabco/gofmtchanged/pkg/reporter"
	"github.com/yaklabco/gofmtchanged/pkg/runner"
	"github.com/yaklabco/gofmtchanged/pkg/textdoc"
	"github.com/yaklabco/gofmtchanged/pkg/vcs"
)

// stdinPath is the path argument that stands for standard input.
const stdinPath = "-"

type reformatFlags struct {
	revision        string
	check           bool
	diff            bool
	stdout          bool
	stdinFilename   string
	formatter       string
	localPrefix     string
	contextSearch   string
	jobs            int
	ignore          []string
	includeVendored bool
	backups         bool
	noBackups       bool
	format          string
}

func addReformatFlags(cmd *cobra.Command, flags *reformatFlags) {
	cmd.Flags().StringVarP(&flags.revision, "revision", "r", vcs.DefaultRevision,
		`revision range to compare against: REV, REV1..REV2, REV1...REV2 or ":PRE-COMMIT:"`)
	cmd.Flags().BoolVar(&flags.check, "check", false, "do not write files; exit 1 if any would be reformatted")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a patch instead of writing files")
	cmd.Flags().BoolVarP(&flags.stdout, "stdout", "d", false, "print the reformatted content of a single file")
	cmd.Flags().StringVar(&flags.stdinFilename, "stdin-filename", "",
		"read the edited file from standard input and treat it as this path")
	cmd.Flags().StringVarP(&flags.formatter, "formatter", "f", formatter.NameGofmt,
		"formatter: gofmt, goimports, none, or a comma-separated chain")
	cmd.Flags().StringVarP(&flags.localPrefix, "local-prefix", "l", "",
		"put imports beginning with this prefix after third-party packages (goimports)")
	cmd.Flags().StringVar(&flags.contextSearch, "context-search", "binary",
		`context widening: "binary", "escalate" or sizes such as "0,2,8"`)
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "W", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false,
		"also process vendored and generated files found in directories")
	cmd.Flags().BoolVar(&flags.backups, "backups", false,
		"keep a .gofmtchanged.bak copy of each file as it was before the rewrite")
	cmd.Flags().BoolVar(&flags.noBackups, "no-backups", false, "do not keep backups, even if configured")
	cmd.Flags().StringVar(&flags.format, "format", "",
		"output format: text, json, diff, stdout, summary (default depends on mode)")
}

// cliConfig builds a configuration holding only the flags set on the command
// line so that config files keep their values for everything else.
func cliConfig(cmd *cobra.Command, flags *reformatFlags) *config.Config {
	changed := cmd.Flags().Changed
	cfg := &config.Config{
		Check:           flags.check,
		Diff:            flags.diff,
		Stdout:          flags.stdout,
		StdinFilename:   flags.stdinFilename,
		NoBackups:       flags.noBackups,
		IncludeVendored: flags.includeVendored,
		Ignore:          flags.ignore,
	}
	if changed("revision") {
		cfg.Revision = flags.revision
	}
	if changed("formatter") {
		cfg.Formatter = flags.formatter
	}
	if changed("local-prefix") {
		cfg.LocalPrefix = flags.localPrefix
	}
	if changed("context-search") {
		cfg.ContextSearch = flags.contextSearch
	}
	if changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	if changed("backups") {
		backups := flags.backups
		cfg.Backups.Enabled = &backups
	}
	if changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("color") {
		color, err := cmd.Flags().GetString("color")
		if err == nil {
			cfg.Color = config.ColorMode(color)
		}
	}
	return cfg
}

// outputMode picks the pipeline mode from the mode flags and the output
// format. Standard input is never written back, so it defaults to stdout.
func outputMode(cfg *config.Config) pipeline.Mode {
	switch {
	case cfg.Stdout:
		return pipeline.ModeStdout
	case cfg.Diff:
		return pipeline.ModeDiff
	case cfg.Check:
		return pipeline.ModeCheck
	case cfg.Format == config.FormatDiff:
		return pipeline.ModeDiff
	case cfg.Format == config.FormatStdout, cfg.StdinFilename != "":
		return pipeline.ModeStdout
	default:
		return pipeline.ModeWrite
	}
}

// reportFormat picks the report format for a mode unless one was configured
// explicitly.
func reportFormat(cfg *config.Config, mode pipeline.Mode) reporter.Format {
	if cfg.Format != "" && cfg.Format != config.FormatText {
		return reporter.Format(cfg.Format)
	}
	switch mode {
	case pipeline.ModeDiff:
		return reporter.FormatDiff
	case pipeline.ModeStdout:
		return reporter.FormatStdout
	default:
		return reporter.FormatText
	}
}

func runReformat(cmd *cobra.Command, args []string, flags *reformatFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliConfig(cmd, flags),
	})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	mode := outputMode(cfg)
	stdin := cfg.StdinFilename != ""
	if err := checkArgs(args, mode, stdin); err != nil {
		return err
	}

	rng, err := vcs.ParseRevisionRange(cfg.Revision, stdin)
	if err != nil {
		return err
	}

	git, err := vcs.NewGit(ctx, workDir, vcs.NewCache())
	if err != nil {
		return err
	}
	rng, err = git.Resolve(ctx, rng)
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		logging.FieldFormatter, cfg.Formatter,
		logging.FieldRevision, rng.String(),
		logging.FieldMode, mode,
		logging.FieldContextSearch, cfg.ContextSearch,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldRepoRoot, git.Root,
	)

	fmtr, err := formatter.New(cfg.Formatter, formatter.Options{LocalPrefix: cfg.LocalPrefix})
	if err != nil {
		return err
	}
	search, err := reformat.ParseContextSearch(cfg.ContextSearch)
	if err != nil {
		return err
	}

	pipe := pipeline.New(reformat.New(fmtr, search), git)
	pipeOpts := pipeline.Options{
		Mode:   mode,
		Range:  rng,
		Backup: cfg.BackupsEnabled(),
	}

	var result *runner.Result
	switch {
	case stdin:
		result, err = processStdin(ctx, cmd.InOrStdin(), pipe, git, cfg.StdinFilename, pipeOpts)
	case mode == pipeline.ModeStdout:
		result, err = processSingle(ctx, pipe, git, args[0], pipeOpts)
	default:
		result, err = runner.New(pipe).Run(ctx, runner.Options{
			Paths:           args,
			WorkingDir:      workDir,
			Extensions:      runner.DefaultExtensions(),
			ExcludeGlobs:    cfg.Ignore,
			IncludeVendored: cfg.IncludeVendored,
			Jobs:            cfg.Jobs,
			Pipeline:        pipeOpts,
		})
	}
	if err != nil {
		return err
	}

	logFailures(logger, result)

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      reportFormat(cfg, mode),
		Color:       string(cfg.Color),
		ShowSummary: true,
		Write:       mode.Writes(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
	)

	return ResultError(result, mode)
}

func checkArgs(args []string, mode pipeline.Mode, stdin bool) error {
	switch {
	case stdin && (len(args) > 1 || len(args) == 1 && args[0] != stdinPath):
		return fmt.Errorf("%w: --stdin-filename takes no paths", ErrUsage)
	case stdin && mode.Writes():
		return fmt.Errorf("%w: standard input cannot be written in place", ErrUsage)
	case !stdin && mode == pipeline.ModeStdout && len(args) != 1:
		return fmt.Errorf("%w: --stdout requires exactly one file", ErrUsage)
	case !stdin && len(args) == 1 && args[0] == stdinPath:
		return fmt.Errorf("%w: reading standard input requires --stdin-filename", ErrUsage)
	}
	return nil
}

// processStdin reformats content read from r as if it were the file path.
func processStdin(
	ctx context.Context,
	r io.Reader,
	pipe *pipeline.Pipeline,
	git *vcs.Git,
	path string,
	opts pipeline.Options,
) (*runner.Result, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logging.FromContext(ctx).Warn("reading Go source from the terminal; end input with Ctrl-D")
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read standard input: %w", err)
	}
	edited, err := textdoc.FromBytes(content)
	if err != nil {
		return nil, fmt.Errorf("decode standard input: %w", err)
	}

	file, err := repoFile(git, path)
	if err != nil {
		return nil, err
	}
	res, err := pipe.ProcessContent(ctx, file, edited, opts)
	return singleResult(file, res, err)
}

// processSingle reformats one named file whether or not it is modified, so
// that --stdout always prints the complete file.
func processSingle(
	ctx context.Context,
	pipe *pipeline.Pipeline,
	git *vcs.Git,
	path string,
	opts pipeline.Options,
) (*runner.Result, error) {
	if info, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pipeline.ErrFileNotFound, path, err)
	} else if info.IsDir() {
		return nil, fmt.Errorf("%w: --stdout needs a file, %s is a directory", ErrUsage, path)
	}

	file, err := repoFile(git, path)
	if err != nil {
		return nil, err
	}
	res, err := pipe.ProcessFile(ctx, file, opts)
	return singleResult(file, res, err)
}

func repoFile(git *vcs.Git, path string) (pipeline.File, error) {
	repoPath, err := git.RelPath(path)
	if err != nil {
		return pipeline.File{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return pipeline.File{Path: filepath.Clean(path), RepoPath: repoPath}, nil
}

func singleResult(file pipeline.File, res *pipeline.Result, err error) (*runner.Result, error) {
	if errors.Is(err, context.Canceled) {
		return nil, err
	}
	outcome := runner.FileOutcome{Path: file.Path, RepoPath: file.RepoPath, Result: res, Error: err}
	if err != nil {
		outcome.Result = nil
	}
	return runner.NewResult(outcome), nil
}

// logFailures warns about files whose reformatted code could not be verified
// and prints the chunks of the last attempt. Errors outside the pipeline's
// known categories are logged at debug level.
func logFailures(logger *log.Logger, result *runner.Result) {
	for _, file := range result.Files {
		var failure *reformat.FailureError
		switch {
		case file.Error == nil:
		case errors.As(file.Error, &failure):
			logger.Warn("reformatted code is not equivalent, file left unchanged",
				logging.FieldPath, file.Path,
				logging.FieldAttempt, failure.Attempts,
				"dump", failure.Dump())
		case !pipeline.IsPipelineError(file.Error):
			logger.Debug("unexpected file error", logging.FieldPath, file.Path, logging.FieldError, file.Error)
		}
	}
}
