// Package vcs supplies the content of files at earlier revisions and the set
// of paths changed between two revisions.
package vcs

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// Pseudo revisions naming content that is not a commit.
const (
	// Worktree is the file on disk.
	Worktree = ":WORKTREE:"

	// Stdin is content read from standard input.
	Stdin = ":STDIN:"

	// PreCommit resolves the range from the environment set by the
	// pre-commit framework.
	PreCommit = ":PRE-COMMIT:"

	// DefaultRevision is compared against when no revision is given.
	DefaultRevision = "HEAD"
)

var (
	// ErrInvalidRevision is returned for a revision range that cannot be used.
	ErrInvalidRevision = errors.New("invalid revision range")

	// ErrRevisionNotFound is returned when git does not know a revision.
	ErrRevisionNotFound = errors.New("revision not found")

	// ErrNotRepository is returned when the working directory is not inside a
	// git repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrGitUnavailable is returned when the git executable cannot be found.
	ErrGitUnavailable = errors.New("git executable not found")
)

// RevisionRange is the pair of revisions to compare. Rev2 may be Worktree or
// Stdin. With UseMergeBase, Rev1 is replaced by the merge base of Rev1 and
// Rev2 before comparing.
type RevisionRange struct {
	Rev1         string
	Rev2         string
	UseMergeBase bool
}

// String returns the range in git notation.
func (r RevisionRange) String() string {
	sep := ".."
	if r.UseMergeBase {
		sep = "..."
	}
	return r.Rev1 + sep + r.Rev2
}

var rangePattern = regexp.MustCompile(`^(.*?)(\.{2,3})(.*)$`)

// ParseRevisionRange parses "rev1..rev2", "rev1...rev2", a single revision or
// PreCommit. A missing first revision means HEAD; a missing second revision
// means the working tree, or Stdin when stdin is set.
func ParseRevisionRange(spec string, stdin bool) (RevisionRange, error) {
	defaultRev2 := Worktree
	if stdin {
		defaultRev2 = Stdin
	}

	if spec == PreCommit {
		return preCommitRange(defaultRev2), nil
	}

	rng := RevisionRange{Rev1: spec, Rev2: defaultRev2}
	if match := rangePattern.FindStringSubmatch(spec); match != nil {
		rng = RevisionRange{Rev1: match[1], Rev2: match[3], UseMergeBase: match[2] == "..."}
	}
	if rng.Rev1 == "" {
		rng.Rev1 = DefaultRevision
	}
	if rng.Rev2 == "" {
		rng.Rev2 = defaultRev2
	}

	switch {
	case rng.Rev1 == Worktree || rng.Rev1 == Stdin:
		return RevisionRange{}, fmt.Errorf("%w: %q cannot be the first revision", ErrInvalidRevision, rng.Rev1)
	case rng.Rev2 == Stdin && !stdin:
		return RevisionRange{}, fmt.Errorf("%w: %s requires reading from standard input", ErrInvalidRevision, Stdin)
	case stdin && rng.Rev2 != Stdin:
		return RevisionRange{}, fmt.Errorf("%w: standard input must be compared against %s", ErrInvalidRevision, Stdin)
	}
	return rng, nil
}

// preCommitRange reads the range the pre-commit framework passes through the
// environment, falling back to comparing HEAD with the working tree.
func preCommitRange(defaultRev2 string) RevisionRange {
	pairs := [][2]string{
		{"PRE_COMMIT_FROM_REF", "PRE_COMMIT_TO_REF"},
		{"PRE_COMMIT_SOURCE", "PRE_COMMIT_ORIGIN"},
	}
	for _, pair := range pairs {
		from, fromOK := os.LookupEnv(pair[0])
		to, toOK := os.LookupEnv(pair[1])
		if fromOK && toOK && from != "" && to != "" {
			return RevisionRange{Rev1: from, Rev2: to, UseMergeBase: true}
		}
	}
	return RevisionRange{Rev1: DefaultRevision, Rev2: defaultRev2}
}

// IsCommitRange reports whether both ends of the range are committed
// revisions, which means there is no file on disk to rewrite.
func (r RevisionRange) IsCommitRange() bool {
	return r.Rev2 != Worktree && r.Rev2 != Stdin
}
