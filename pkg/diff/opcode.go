// Package diff implements the line-level reconciliation between an edited file
// and its fully reformatted version.
//
// The flow is:
//   - Opcodes aligns two line sequences (baseline vs edited, or edited vs
//     reformatted).
//   - EditedLines turns baseline/edited opcodes into the set of edited line
//     numbers, widened by context and snapped to multi-line strings.
//   - BuildChunks splits edited/reformatted opcodes into chunks that tile the
//     edited file.
//   - ChooseLines keeps the original lines of untouched chunks and the
//     reformatted lines of chunks that contain an edited line.
package diff

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Tag is the kind of an opcode.
type Tag string

// Opcode tags.
const (
	TagEqual   Tag = "equal"
	TagReplace Tag = "replace"
	TagDelete  Tag = "delete"
	TagInsert  Tag = "insert"
)

// Opcode describes one aligned segment between a "from" and a "to" sequence.
// Indices are 0-based and end-exclusive.
type Opcode struct {
	Tag      Tag
	SrcStart int
	SrcEnd   int
	DstStart int
	DstEnd   int
}

// String returns the opcode in (tag, i1, i2, j1, j2) form.
func (o Opcode) String() string {
	return fmt.Sprintf("(%s, %d, %d, %d, %d)", o.Tag, o.SrcStart, o.SrcEnd, o.DstStart, o.DstEnd)
}

// Opcodes computes the edit script turning from into to.
//
// Every line is significant: autojunk is off and there is no junk predicate,
// since Go source repeats short lines such as "}" and blank lines constantly.
// Identical inputs produce a single equal opcode, or none for empty input.
func Opcodes(from, to []string) []Opcode {
	matcher := difflib.NewMatcherWithJunk(from, to, false, nil)
	raw := matcher.GetOpCodes()
	opcodes := make([]Opcode, 0, len(raw))
	for _, op := range raw {
		opcodes = append(opcodes, Opcode{
			Tag:      tagFromByte(op.Tag),
			SrcStart: op.I1,
			SrcEnd:   op.I2,
			DstStart: op.J1,
			DstEnd:   op.J2,
		})
	}
	return opcodes
}

func tagFromByte(b byte) Tag {
	switch b {
	case 'e':
		return TagEqual
	case 'r':
		return TagReplace
	case 'd':
		return TagDelete
	case 'i':
		return TagInsert
	default:
		return Tag(string(b))
	}
}

// LineRange is a 1-based, end-exclusive run of lines.
type LineRange struct {
	Start int
	End   int
}

// Overlaps reports whether r and [start, end) share at least one line.
func (r LineRange) Overlaps(start, end int) bool {
	return r.Start < end && start < r.End
}

// String returns the range as [start, end).
func (r LineRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}
