// Package patch renders unified diffs between an original and a reformatted
// file.
package patch

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of unchanged lines shown around each change.
const DefaultContext = 3

// Patch is a unified diff between two versions of one file.
type Patch struct {
	// Path is the file path used in the headers.
	Path string

	// Hunks are the groups of changes, in file order.
	Hunks []Hunk

	// Additions is the number of added lines.
	Additions int

	// Deletions is the number of removed lines.
	Deletions int
}

// Hunk is one "@@" section of a unified diff.
type Hunk struct {
	// OriginalStart is the 1-based first original line of the hunk.
	OriginalStart int
	OriginalCount int

	// ModifiedStart is the 1-based first modified line of the hunk.
	ModifiedStart int
	ModifiedCount int

	Lines []Line
}

// Line is a single line of a hunk.
type Line struct {
	Kind    LineKind
	Content string
}

// LineKind indicates whether a line is kept, added or removed.
type LineKind int

const (
	// LineContext is an unchanged line.
	LineContext LineKind = iota

	// LineAdd is a line present only in the modified version.
	LineAdd

	// LineRemove is a line present only in the original version.
	LineRemove
)

// Prefix returns the unified diff marker for the kind.
func (k LineKind) Prefix() string {
	switch k {
	case LineAdd:
		return "+"
	case LineRemove:
		return "-"
	default:
		return " "
	}
}

// Generate diffs original against modified with DefaultContext lines of
// context. Both are line slices without line terminators. It returns nil
// when they are equal.
func Generate(path string, original, modified []string) *Patch {
	return GenerateContext(path, original, modified, DefaultContext)
}

// GenerateContext is Generate with an explicit context size.
func GenerateContext(path string, original, modified []string, context int) *Patch {
	if slices.Equal(original, modified) {
		return nil
	}

	matcher := difflib.NewMatcherWithJunk(original, modified, false, nil)
	patch := &Patch{Path: path}
	for _, group := range matcher.GetGroupedOpCodes(context) {
		hunk := buildHunk(group, original, modified)
		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineAdd:
				patch.Additions++
			case LineRemove:
				patch.Deletions++
			case LineContext:
			}
		}
		patch.Hunks = append(patch.Hunks, hunk)
	}
	if len(patch.Hunks) == 0 {
		return nil
	}
	return patch
}

func buildHunk(group []difflib.OpCode, original, modified []string) Hunk {
	first, last := group[0], group[len(group)-1]
	hunk := Hunk{
		OriginalStart: first.I1 + 1,
		OriginalCount: last.I2 - first.I1,
		ModifiedStart: first.J1 + 1,
		ModifiedCount: last.J2 - first.J1,
	}
	// An empty side is anchored on the line before it, as diff(1) does.
	if hunk.OriginalCount == 0 {
		hunk.OriginalStart--
	}
	if hunk.ModifiedCount == 0 {
		hunk.ModifiedStart--
	}

	for _, op := range group {
		if op.Tag == 'e' {
			for _, text := range original[op.I1:op.I2] {
				hunk.Lines = append(hunk.Lines, Line{Kind: LineContext, Content: text})
			}
			continue
		}
		if op.Tag == 'r' || op.Tag == 'd' {
			for _, text := range original[op.I1:op.I2] {
				hunk.Lines = append(hunk.Lines, Line{Kind: LineRemove, Content: text})
			}
		}
		if op.Tag == 'r' || op.Tag == 'i' {
			for _, text := range modified[op.J1:op.J2] {
				hunk.Lines = append(hunk.Lines, Line{Kind: LineAdd, Content: text})
			}
		}
	}
	return hunk
}

// HasChanges reports whether the patch contains any hunk.
func (p *Patch) HasChanges() bool {
	return p != nil && len(p.Hunks) > 0
}

// GitHeader returns the "diff --git" header line.
func (p *Patch) GitHeader() string {
	if p == nil {
		return ""
	}
	path := strings.TrimPrefix(p.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the patch in unified diff format without the git header.
func (p *Patch) String() string {
	if !p.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(p.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n", path)
	fmt.Fprintf(&builder, "+++ b/%s\n", path)
	for _, hunk := range p.Hunks {
		builder.WriteString(hunk.Header())
		builder.WriteByte('\n')
		for _, line := range hunk.Lines {
			builder.WriteString(line.Kind.Prefix())
			builder.WriteString(line.Content)
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

// FullString returns the patch including the git header.
func (p *Patch) FullString() string {
	if !p.HasChanges() {
		return ""
	}
	return p.GitHeader() + "\n" + p.String()
}

// Header returns the "@@ -a,b +c,d @@" line of the hunk.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%s +%s @@",
		hunkRange(h.OriginalStart, h.OriginalCount),
		hunkRange(h.ModifiedStart, h.ModifiedCount))
}

func hunkRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}
