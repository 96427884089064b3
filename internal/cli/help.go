package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gofmtchanged/internal/ui/pretty"
)

// helpStyles holds the lipgloss styles used for command help.
type helpStyles struct {
	heading lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{heading: plain, command: plain, flag: plain, dim: plain}
	}
	return helpStyles{
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// flagToken matches "-f," and "--flag" in pflag usage lines.
var flagToken = regexp.MustCompile(`(^|\s)(--?[A-Za-z0-9][\w-]*)`)

// flagType matches the value placeholder pflag prints after a flag name.
var flagType = regexp.MustCompile(`(--[\w-]+) (string|strings|int|bool|duration)\b`)

// applyHelp installs a styled help function on cmd and its subcommands. The
// color decision is made when help is printed, after flags are parsed.
func applyHelp(root *cobra.Command, defaultColor string, out io.Writer) {
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		mode := defaultColor
		if flag := cmd.Flags().Lookup("color"); flag != nil {
			mode = flag.Value.String()
		}
		styles := newHelpStyles(pretty.IsColorEnabled(mode, out))
		if _, err := io.WriteString(cmd.OutOrStdout(), renderHelp(cmd, styles)); err != nil {
			cmd.PrintErrln(err)
		}
	})
}

func renderHelp(cmd *cobra.Command, styles helpStyles) string {
	var buf strings.Builder

	if text := strings.TrimSpace(cmd.Long); text != "" {
		buf.WriteString(text)
	} else {
		buf.WriteString(cmd.Short)
	}
	buf.WriteString("\n\n")

	buf.WriteString(styles.heading.Render("Usage:") + "\n")
	if cmd.Runnable() {
		buf.WriteString("  " + styles.command.Render(cmd.UseLine()) + "\n")
	}
	if cmd.HasAvailableSubCommands() {
		buf.WriteString("  " + styles.command.Render(cmd.CommandPath()+" [command]") + "\n")
	}

	if cmd.HasAvailableSubCommands() {
		buf.WriteString("\n" + styles.heading.Render("Commands:") + "\n")
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() && sub.Name() != "help" {
				continue
			}
			fmt.Fprintf(&buf, "  %s %s\n", styles.command.Render(rpad(sub.Name(), sub.NamePadding())), sub.Short)
		}
	}

	if cmd.HasAvailableLocalFlags() {
		buf.WriteString("\n" + styles.heading.Render("Flags:") + "\n")
		buf.WriteString(styleFlagUsages(cmd.LocalFlags().FlagUsages(), styles))
	}
	if cmd.HasAvailableInheritedFlags() {
		buf.WriteString("\n" + styles.heading.Render("Global Flags:") + "\n")
		buf.WriteString(styleFlagUsages(cmd.InheritedFlags().FlagUsages(), styles))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&buf, "\nUse %q for more information about a command.\n",
			cmd.CommandPath()+" [command] --help")
	}
	return buf.String()
}

// styleFlagUsages colors flag names and dims value placeholders, line by
// line, keeping pflag's alignment.
func styleFlagUsages(usages string, styles helpStyles) string {
	lines := strings.SplitAfter(usages, "\n")
	for i, line := range lines {
		line = flagType.ReplaceAllString(line, "$1 "+styles.dim.Render("$2"))
		lines[i] = flagToken.ReplaceAllStringFunc(line, func(match string) string {
			trimmed := strings.TrimLeft(match, " \t")
			return match[:len(match)-len(trimmed)] + styles.flag.Render(trimmed)
		})
	}
	return strings.Join(lines, "")
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}
