package diff

import (
	"fmt"
	"iter"
	"sort"
	"strings"
)

// Chunk is a run of original lines together with the lines that replace them.
// OriginLine is the 1-based number of the first original line; for a pure
// insertion it is the line the new lines are inserted before.
type Chunk struct {
	OriginLine  int
	Original    []string
	Replacement []string
}

// Changed reports whether the replacement differs from the original.
func (c Chunk) Changed() bool {
	if len(c.Original) != len(c.Replacement) {
		return true
	}
	for i := range c.Original {
		if c.Original[i] != c.Replacement[i] {
			return true
		}
	}
	return false
}

// lastLine is the last line number the chunk occupies. Chunks with no
// original lines still occupy their origin line.
func (c Chunk) lastLine() int {
	return c.OriginLine + max(len(c.Original), 1) - 1
}

// BuildChunks turns src-to-dst opcodes into one chunk per opcode, in order.
// Equal opcodes yield chunks whose original and replacement lines match.
func BuildChunks(opcodes []Opcode, src, dst []string) ([]Chunk, error) {
	if err := ValidateOpcodes(opcodes, len(src), len(dst)); err != nil {
		return nil, err
	}
	chunks := make([]Chunk, 0, len(opcodes))
	for _, op := range opcodes {
		chunks = append(chunks, Chunk{
			OriginLine:  op.SrcStart + 1,
			Original:    src[op.SrcStart:op.SrcEnd:op.SrcEnd],
			Replacement: dst[op.DstStart:op.DstEnd:op.DstEnd],
		})
	}
	return chunks, nil
}

// ChooseLines yields the final content line by line. A chunk with an edited
// line anywhere in its original span is taken whole from the replacement;
// every other chunk passes its original lines through untouched.
func ChooseLines(chunks []Chunk, editedLines []int) iter.Seq[string] {
	sorted := sort.IntsAreSorted(editedLines)
	return func(yield func(string) bool) {
		for _, chunk := range chunks {
			lines := chunk.Original
			if hasEditedLine(editedLines, sorted, chunk.OriginLine, chunk.lastLine()) {
				lines = chunk.Replacement
			}
			for _, line := range lines {
				if !yield(line) {
					return
				}
			}
		}
	}
}

// hasEditedLine reports whether any line number in edited falls in [first, last].
func hasEditedLine(edited []int, sorted bool, first, last int) bool {
	if sorted {
		idx := sort.SearchInts(edited, first)
		return idx < len(edited) && edited[idx] <= last
	}
	for _, n := range edited {
		if first <= n && n <= last {
			return true
		}
	}
	return false
}

// DumpChunks renders chunks for diagnostics, marking the ones selected by
// editedLines with "*".
func DumpChunks(chunks []Chunk, editedLines []int) string {
	sorted := sort.IntsAreSorted(editedLines)
	var builder strings.Builder
	for _, chunk := range chunks {
		if !chunk.Changed() {
			continue
		}
		marker := " "
		if hasEditedLine(editedLines, sorted, chunk.OriginLine, chunk.lastLine()) {
			marker = "*"
		}
		fmt.Fprintf(&builder, "%s chunk at line %d (%d -> %d lines)\n",
			marker, chunk.OriginLine, len(chunk.Original), len(chunk.Replacement))
		for _, line := range chunk.Original {
			fmt.Fprintf(&builder, "  -%s\n", line)
		}
		for _, line := range chunk.Replacement {
			fmt.Fprintf(&builder, "  +%s\n", line)
		}
	}
	return builder.String()
}
