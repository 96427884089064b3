// Package reformat applies a formatter to only the edited regions of a Go
// file and checks that the result still means the same program.
package reformat

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gofmtchanged/internal/logging"
	"github.com/yaklabco/gofmtchanged/pkg/diff"
	"github.com/yaklabco/gofmtchanged/pkg/formatter"
	"github.com/yaklabco/gofmtchanged/pkg/gosyntax"
	"github.com/yaklabco/gofmtchanged/pkg/textdoc"
)

// Input is one file to reformat.
type Input struct {
	// Path names the file in messages and is passed to the formatter.
	Path string

	// Baseline is the file at the reference revision; empty for new files.
	Baseline *textdoc.Document

	// Edited is the current content of the file.
	Edited *textdoc.Document
}

// Output is the result of reformatting one file.
type Output struct {
	Path string

	// Document is the edited file with reformatted chunks applied. It keeps
	// the edited file's encoding and newline style.
	Document *textdoc.Document

	// Changed reports whether Document differs from the edited content.
	Changed bool

	// ContextLines is the context size of the accepted attempt.
	ContextLines int

	// EditedLines are the line numbers treated as edited in that attempt.
	EditedLines []int

	// Attempts counts the reformat attempts made.
	Attempts int
}

// Reformatter reformats the edited regions of files.
type Reformatter struct {
	// Formatter produces the fully formatted file; nil means gofmt.
	Formatter formatter.Formatter

	// Search chooses context sizes; nil means BinarySearch.
	Search ContextSearch

	// Logger receives debug output; nil means the logger in the context.
	Logger *log.Logger
}

// New creates a Reformatter with the given formatter and search strategy.
func New(f formatter.Formatter, search ContextSearch) *Reformatter {
	return &Reformatter{Formatter: f, Search: search}
}

type attempt struct {
	doc    *textdoc.Document
	edited []int
}

// Reformat returns in.Edited with formatter changes applied to the lines
// edited since in.Baseline, plus surrounding context where needed to keep the
// syntax tree unchanged. Lines outside the chosen regions are returned as is.
//
// The formatter runs at most once. Each attempt re-selects chunks for a
// different context size; the search strategy decides which sizes to try.
func (r *Reformatter) Reformat(ctx context.Context, in Input) (*Output, error) {
	logger := r.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	logger = logger.With(logging.FieldPath, in.Path)

	baseline := in.Baseline
	if baseline == nil {
		baseline = textdoc.Empty()
	}
	edited := in.Edited.Lines()

	unchanged := &Output{Path: in.Path, Document: in.Edited, EditedLines: []int{}}

	baselineOps := diff.Opcodes(baseline.Lines(), edited)
	if !hasEdits(baselineOps) {
		logger.Debug("no edits since baseline")
		return unchanged, nil
	}

	multiline, err := gosyntax.MultilineStringRanges(in.Edited)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Path, err)
	}

	fmtr := r.Formatter
	if fmtr == nil {
		fmtr = formatter.Gofmt{}
	}

	var (
		chunks    []diff.Chunk
		formatted bool
		formatErr error
	)
	formatOnce := func() error {
		if formatted {
			return formatErr
		}
		formatted = true
		out, err := fmtr.Format(ctx, in.Path, []byte(in.Edited.String()))
		if err != nil {
			formatErr = fmt.Errorf("%s: %w", in.Path, err)
			return formatErr
		}
		lines := textdoc.SplitLines(string(out))
		chunks, err = diff.BuildChunks(diff.Opcodes(edited, lines), edited, lines)
		if err != nil {
			formatErr = fmt.Errorf("%s: %w", in.Path, err)
			return formatErr
		}
		logger.Debug("formatted", logging.FieldFormatter, fmtr.Name(), logging.FieldChunks, len(chunks))
		return nil
	}

	var verifyOpts []gosyntax.VerifyOption
	if formatter.RewritesImports(fmtr) {
		verifyOpts = append(verifyOpts, gosyntax.IgnoreImports())
	}

	accepted := make(map[int]attempt)
	var lastFailure *FailureError
	attempts := 0

	try := func(contextLines int) (bool, error) {
		attempts++
		lines, err := diff.CollectEditedLines(baselineOps, contextLines, multiline)
		if err != nil {
			return false, fmt.Errorf("%s: %w", in.Path, err)
		}
		logger.Debug("reformat attempt",
			logging.FieldAttempt, attempts,
			logging.FieldContext, contextLines,
			logging.FieldEditedLines, len(lines))

		if len(lines) == 0 {
			accepted[contextLines] = attempt{doc: in.Edited, edited: lines}
			return true, nil
		}
		if err := formatOnce(); err != nil {
			return false, err
		}

		chosen := slices.Collect(diff.ChooseLines(chunks, lines))
		result := in.Edited
		if !slices.Equal(chosen, edited) {
			result = in.Edited.WithLines(chosen)
		}
		err = gosyntax.VerifyASTUnchanged(in.Edited.String(), result.String(), verifyOpts...)
		var notEquivalent *gosyntax.NotEquivalentError
		switch {
		case errors.As(err, &notEquivalent):
			logger.Debug("syntax tree changed", logging.FieldContext, contextLines, logging.FieldError, err)
			lastFailure = &FailureError{
				Path:         in.Path,
				ContextLines: contextLines,
				EditedLines:  lines,
				Chunks:       chunks,
				Err:          notEquivalent,
			}
			return false, nil
		case err != nil:
			return false, fmt.Errorf("%s: %w", in.Path, err)
		}
		accepted[contextLines] = attempt{doc: result, edited: lines}
		return true, nil
	}

	search := r.Search
	if search == nil {
		search = BinarySearch{}
	}
	if sized, ok := search.(DiffSized); ok {
		search = sized.WithDiffLines(diffLines(baselineOps))
	}
	contextLines, ok, err := search.Search(ctx, len(edited), try)
	if err != nil {
		return nil, err
	}
	if !ok {
		if lastFailure == nil {
			lastFailure = &FailureError{Path: in.Path, Err: gosyntax.ErrNotEquivalent}
		}
		lastFailure.Attempts = attempts
		return nil, lastFailure
	}

	chosen := accepted[contextLines]
	logger.Debug("reformat accepted", logging.FieldContext, contextLines, logging.FieldAttempt, attempts)
	return &Output{
		Path:         in.Path,
		Document:     chosen.doc,
		Changed:      !chosen.doc.Equal(in.Edited),
		ContextLines: contextLines,
		EditedLines:  chosen.edited,
		Attempts:     attempts,
	}, nil
}

// diffLines counts the lines touched by non-equal opcodes, taking the larger
// side of each.
func diffLines(opcodes []diff.Opcode) int {
	total := 0
	for _, op := range opcodes {
		if op.Tag != diff.TagEqual {
			total += max(op.SrcEnd-op.SrcStart, op.DstEnd-op.DstStart)
		}
	}
	return total
}

func hasEdits(opcodes []diff.Opcode) bool {
	for _, op := range opcodes {
		if op.Tag != diff.TagEqual {
			return true
		}
	}
	return false
}
