package reformat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidContextSearch is returned by ParseContextSearch for an
// unrecognized strategy.
var ErrInvalidContextSearch = errors.New("invalid context search")

// ContextSearch picks the context sizes to try and decides which successful
// attempt wins. try reports whether a context size produced an equivalent
// result; an error from try aborts the search.
type ContextSearch interface {
	// Search returns the chosen context size and whether any attempt
	// succeeded. Context sizes passed to try lie in [0, maxContext].
	Search(ctx context.Context, maxContext int, try func(contextLines int) (bool, error)) (int, bool, error)
}

// BinarySearch finds the smallest successful context size, assuming that
// once a size succeeds every larger one does too.
type BinarySearch struct{}

// Search implements ContextSearch.
func (BinarySearch) Search(ctx context.Context, maxContext int, try func(int) (bool, error)) (int, bool, error) {
	low, high := 0, maxContext+1
	best, found := 0, false
	for low < high {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		next := (low + high) / 2
		ok, err := try(next)
		if err != nil {
			return 0, false, err
		}
		if ok {
			high = next
			best, found = next, true
		} else {
			low = next + 1
		}
	}
	return best, found, nil
}

// DiffSized is implemented by strategies whose context sizes depend on how
// many lines the edits span. Reformat calls WithDiffLines before searching.
type DiffSized interface {
	WithDiffLines(n int) ContextSearch
}

// DiffEscalation tries no context, then as many context lines as the edits
// span, then two more, then one more, before falling back to the whole file.
type DiffEscalation struct {
	// DiffLines is the number of lines the edits span.
	DiffLines int
}

// WithDiffLines implements DiffSized.
func (d DiffEscalation) WithDiffLines(n int) ContextSearch {
	d.DiffLines = n
	return d
}

// Steps returns the context sizes tried, before the whole file.
func (d DiffEscalation) Steps() []int {
	n := max(d.DiffLines, 1)
	return []int{0, n, n + 2, n + 3}
}

// Search implements ContextSearch.
func (d DiffEscalation) Search(ctx context.Context, maxContext int, try func(int) (bool, error)) (int, bool, error) {
	return Escalation{Steps: d.Steps()}.Search(ctx, maxContext, try)
}

// Escalation tries a fixed increasing sequence of context sizes and stops at
// the first success. Steps beyond maxContext are clamped, repeated or
// decreasing steps are skipped, and maxContext itself is always tried last.
type Escalation struct {
	Steps []int
}

// Search implements ContextSearch.
func (e Escalation) Search(ctx context.Context, maxContext int, try func(int) (bool, error)) (int, bool, error) {
	steps := e.Steps
	prev := -1
	for _, step := range append(steps[:len(steps):len(steps)], maxContext) {
		step = min(max(step, 0), maxContext)
		if step <= prev {
			continue
		}
		prev = step

		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		ok, err := try(step)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return step, true, nil
		}
	}
	return 0, false, nil
}

// ParseContextSearch builds a strategy from its configuration spelling:
// "binary" (the default), "escalate" for DiffEscalation, or a comma-separated
// list of context sizes such as "0,2,8".
func ParseContextSearch(spec string) (ContextSearch, error) {
	switch strings.ToLower(strings.TrimSpace(spec)) {
	case "", "binary":
		return BinarySearch{}, nil
	case "escalate", "escalation":
		return DiffEscalation{}, nil
	}

	fields := strings.Split(spec, ",")
	steps := make([]int, 0, len(fields))
	for _, field := range fields {
		step, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || step < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidContextSearch, spec)
		}
		if len(steps) > 0 && step <= steps[len(steps)-1] {
			return nil, fmt.Errorf("%w: %q is not increasing", ErrInvalidContextSearch, spec)
		}
		steps = append(steps, step)
	}
	return Escalation{Steps: steps}, nil
}
