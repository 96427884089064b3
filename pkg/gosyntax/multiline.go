// Package gosyntax holds the Go-aware pieces of selective reformatting: the
// raw string scanner that keeps edit windows from splitting a multi-line
// literal, and the AST comparison that proves a partial reformat kept the
// program's meaning.
package gosyntax

import (
	"errors"
	"fmt"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/yaklabco/gofmtchanged/pkg/diff"
	"github.com/yaklabco/gofmtchanged/pkg/textdoc"
)

// ErrInvalidSource indicates content that could not be tokenized or parsed as Go.
var ErrInvalidSource = errors.New("invalid Go source")

// MultilineStringRanges returns the line ranges covered by string literals
// that span more than one line. Each range starts at the literal's first line
// and ends one past its last line. Ranges are ascending and never overlap.
func MultilineStringRanges(doc *textdoc.Document) ([]diff.LineRange, error) {
	src := []byte(doc.String())

	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var errs scanner.ErrorList
	var scan scanner.Scanner
	scan.Init(file, src, func(pos token.Position, msg string) {
		errs.Add(pos, msg)
	}, 0)

	var ranges []diff.LineRange
	for {
		pos, tok, lit := scan.Scan()
		if tok == token.EOF {
			break
		}
		if tok != token.STRING {
			continue
		}
		// Raw literals are returned with carriage returns removed, which
		// leaves the newline count intact.
		newlines := strings.Count(lit, "\n")
		if newlines == 0 {
			continue
		}
		start := file.Line(pos)
		ranges = append(ranges, diff.LineRange{Start: start, End: start + newlines + 1})
	}

	if errs.Len() > 0 {
		errs.Sort()
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, errs.Err())
	}
	return ranges, nil
}
