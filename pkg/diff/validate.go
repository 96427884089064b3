package diff

import (
	"errors"
	"fmt"
)

// ErrMalformedDiff indicates an opcode sequence that does not tile both
// sequences or does not alternate between equal and non-equal segments.
var ErrMalformedDiff = errors.New("malformed diff")

// MalformedDiffError describes the first defect found in an opcode sequence.
type MalformedDiffError struct {
	// Index is the position of the offending opcode.
	Index int

	// Opcodes is the full sequence that failed validation.
	Opcodes []Opcode

	// Message explains the defect.
	Message string
}

func (e *MalformedDiffError) Error() string {
	if e.Index < 0 || e.Index >= len(e.Opcodes) {
		return fmt.Sprintf("%v: %s", ErrMalformedDiff, e.Message)
	}
	return fmt.Sprintf("%v: opcode %d %s: %s", ErrMalformedDiff, e.Index, e.Opcodes[e.Index], e.Message)
}

func (e *MalformedDiffError) Unwrap() error {
	return ErrMalformedDiff
}

// ValidateOpcodes checks that opcodes tile [0, srcLen) and [0, dstLen)
// without gaps or overlaps and strictly alternate between equal and
// non-equal tags. Pass negative lengths to skip the end-of-sequence check.
func ValidateOpcodes(opcodes []Opcode, srcLen, dstLen int) error {
	if len(opcodes) == 0 {
		if srcLen > 0 || dstLen > 0 {
			return &MalformedDiffError{Index: -1, Message: "no opcodes for non-empty sequences"}
		}
		return nil
	}

	fail := func(idx int, format string, args ...any) error {
		return &MalformedDiffError{Index: idx, Opcodes: opcodes, Message: fmt.Sprintf(format, args...)}
	}

	srcPos, dstPos := 0, 0
	for idx, op := range opcodes {
		if err := checkShape(op); err != nil {
			return fail(idx, "%s", err)
		}
		if op.SrcStart != srcPos || op.DstStart != dstPos {
			return fail(idx, "expected to start at (%d, %d)", srcPos, dstPos)
		}
		if idx > 0 && (opcodes[idx-1].Tag == TagEqual) == (op.Tag == TagEqual) {
			return fail(idx, "follows %s without alternating equal and non-equal", opcodes[idx-1].Tag)
		}
		srcPos, dstPos = op.SrcEnd, op.DstEnd
	}

	if srcLen >= 0 && srcPos != srcLen {
		return fail(len(opcodes)-1, "source ends at %d, want %d", srcPos, srcLen)
	}
	if dstLen >= 0 && dstPos != dstLen {
		return fail(len(opcodes)-1, "destination ends at %d, want %d", dstPos, dstLen)
	}
	return nil
}

// checkShape verifies that an opcode's ranges are consistent with its tag.
func checkShape(op Opcode) error {
	if op.SrcStart < 0 || op.DstStart < 0 || op.SrcEnd < op.SrcStart || op.DstEnd < op.DstStart {
		return errors.New("invalid range")
	}
	srcLen, dstLen := op.SrcEnd-op.SrcStart, op.DstEnd-op.DstStart
	switch op.Tag {
	case TagEqual:
		if srcLen != dstLen || srcLen == 0 {
			return errors.New("equal segment must have the same non-zero length on both sides")
		}
	case TagReplace:
		if srcLen == 0 || dstLen == 0 {
			return errors.New("replace segment must be non-empty on both sides")
		}
	case TagDelete:
		if srcLen == 0 || dstLen != 0 {
			return errors.New("delete segment must remove lines and insert none")
		}
	case TagInsert:
		if srcLen != 0 || dstLen == 0 {
			return errors.New("insert segment must add lines and remove none")
		}
	default:
		return fmt.Errorf("unknown tag %q", op.Tag)
	}
	return nil
}
