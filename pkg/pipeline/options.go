package pipeline

import (
	"fmt"

	"github.com/yaklabco/gofmtchanged/pkg/vcs"
)

// Mode selects what happens to a reformatted file.
type Mode string

// Output modes.
const (
	// ModeWrite replaces the file on disk.
	ModeWrite Mode = "write"

	// ModeCheck only reports whether the file would change.
	ModeCheck Mode = "check"

	// ModeDiff produces a unified diff of the change.
	ModeDiff Mode = "diff"

	// ModeStdout returns the reformatted content for printing.
	ModeStdout Mode = "stdout"
)

// Writes reports whether the mode modifies files on disk.
func (m Mode) Writes() bool {
	return m == ModeWrite || m == ""
}

// Options controls per-file processing.
type Options struct {
	// Mode selects the output; empty means ModeWrite.
	Mode Mode

	// Range is the revision range whose edits are reformatted. An empty Rev2
	// means the working tree.
	Range vcs.RevisionRange

	// Backup keeps a copy of each file's content from before its latest rewrite.
	Backup bool
}

// DefaultOptions returns options comparing HEAD with the working tree and
// writing files in place without backups.
func DefaultOptions() Options {
	return Options{
		Mode:  ModeWrite,
		Range: vcs.RevisionRange{Rev1: vcs.DefaultRevision, Rev2: vcs.Worktree},
	}
}

// Validate rejects combinations that cannot be honoured.
func (o Options) Validate() error {
	switch o.Mode {
	case "", ModeWrite, ModeCheck, ModeDiff, ModeStdout:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, o.Mode)
	}
	if o.Mode.Writes() && o.rev2() != vcs.Worktree {
		return fmt.Errorf("%w: cannot reformat %s in place, use --diff, --check or --stdout",
			ErrReadOnlyRange, o.Range)
	}
	return nil
}

func (o Options) rev2() string {
	if o.Range.Rev2 == "" {
		return vcs.Worktree
	}
	return o.Range.Rev2
}
