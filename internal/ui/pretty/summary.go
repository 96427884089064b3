package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gofmtchanged/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 files reformatted, 1 file unchanged, 1 file failed (5 files checked)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, write bool) string {
	if stats.FilesChanged == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("All done!") +
			s.Dim.Render(fmt.Sprintf(" %d %s left unchanged", stats.FilesProcessed, plural(stats.FilesProcessed))) + "\n"
	}

	var parts []string

	if stats.FilesChanged > 0 {
		verb := "would be reformatted"
		if write {
			verb = "reformatted"
		}
		parts = append(parts, s.Changed.Render(fmt.Sprintf("%d %s %s", stats.FilesChanged, plural(stats.FilesChanged), verb)))
	}

	if unchanged := stats.FilesProcessed - stats.FilesChanged; unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d %s unchanged", unchanged, plural(unchanged)))
	}

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s failed", stats.FilesErrored, plural(stats.FilesErrored))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Go files found:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files modified:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesSelected)) + "\n")
	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesChanged > 0 {
		builder.WriteString("  Need reformatting: " +
			s.Changed.Render(strconv.Itoa(stats.FilesChanged)) + "\n")
	}

	if stats.FilesModified > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(stats.FilesModified)) + "\n")
	}

	if stats.BackupsCreated > 0 {
		builder.WriteString("  Backups created:   " +
			s.SummaryValue.Render(strconv.Itoa(stats.BackupsCreated)) + "\n")
	}

	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Reformatting failed for some files"))
	case stats.FilesChanged > stats.FilesModified:
		builder.WriteString(s.Warning.Render("Some files need reformatting"))
	default:
		builder.WriteString(s.Success.Render("All done"))
	}
	builder.WriteString("\n")

	return builder.String()
}
