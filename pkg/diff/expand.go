package diff

import (
	"iter"
	"slices"
)

// FindOverlap returns the smallest range covering every range in ranges that
// overlaps [start, end). Ranges must be sorted ascending and are half-open.
// The second result is false when nothing overlaps.
func FindOverlap(start, end int, ranges []LineRange) (LineRange, bool) {
	var hull LineRange
	found := false
	for _, rng := range ranges {
		if end <= rng.Start {
			break
		}
		if !rng.Overlaps(start, end) {
			continue
		}
		if !found {
			hull = rng
			found = true
			continue
		}
		hull.Start = min(hull.Start, rng.Start)
		hull.End = max(hull.End, rng.End)
	}
	return hull, found
}

// EditedLines converts baseline-to-edited opcodes into the 1-based line
// numbers of the edited file that count as touched.
//
// Each non-equal opcode covers its destination lines widened by contextLines
// on both sides. A window that overlaps a multi-line string is widened to
// cover the whole string. Windows never extend past the last line (or the end
// of the last multi-line string) and never re-emit lines already produced, so
// the sequence is strictly ascending.
//
// Opcodes are validated before the iterator is returned. The iterator may be
// ranged over more than once; each pass recomputes the sequence.
func EditedLines(opcodes []Opcode, contextLines int, multilineRanges []LineRange) (iter.Seq[int], error) {
	if len(opcodes) == 0 {
		return func(func(int) bool) {}, nil
	}
	if err := ValidateOpcodes(opcodes, -1, -1); err != nil {
		return nil, err
	}

	lastLine := opcodes[len(opcodes)-1].DstEnd + 1
	if len(multilineRanges) > 0 {
		lastLine = max(lastLine, multilineRanges[len(multilineRanges)-1].End)
	}

	return func(yield func(int) bool) {
		prevEnd := 1
		for _, op := range opcodes {
			if op.Tag == TagEqual {
				continue
			}
			start := op.DstStart + 1 - contextLines
			end := op.DstEnd + 1 + contextLines
			if hull, ok := FindOverlap(start, end, multilineRanges); ok {
				start = min(start, hull.Start)
				end = max(end, hull.End)
			}
			for line := max(start, prevEnd); line < min(end, lastLine); line++ {
				if !yield(line) {
					return
				}
			}
			prevEnd = max(prevEnd, end)
		}
	}, nil
}

// CollectEditedLines is EditedLines materialized into a slice.
func CollectEditedLines(opcodes []Opcode, contextLines int, multilineRanges []LineRange) ([]int, error) {
	seq, err := EditedLines(opcodes, contextLines, multilineRanges)
	if err != nil {
		return nil, err
	}
	lines := slices.Collect(seq)
	if lines == nil {
		lines = []int{}
	}
	return lines, nil
}
