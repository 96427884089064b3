package reformat

import (
	"fmt"

	"github.com/yaklabco/gofmtchanged/pkg/diff"
)

// FailureError is returned when no context size produced a result with an
// unchanged syntax tree. It unwraps to the last *gosyntax.NotEquivalentError.
type FailureError struct {
	Path string

	// Attempts counts the reformat attempts made.
	Attempts int

	// ContextLines, EditedLines and Chunks describe the last failed attempt.
	ContextLines int
	EditedLines  []int
	Chunks       []diff.Chunk

	Err error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("%s: giving up after %d attempts (last context %d lines): %v",
		e.Path, e.Attempts, e.ContextLines, e.Err)
}

func (e *FailureError) Unwrap() error {
	return e.Err
}

// Dump renders the chunks of the last failed attempt, marking the ones that
// were taken from the formatter, followed by the edited line numbers.
func (e *FailureError) Dump() string {
	return fmt.Sprintf("%sedited lines: %v\n", diff.DumpChunks(e.Chunks, e.EditedLines), e.EditedLines)
}
