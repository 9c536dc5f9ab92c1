package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdsync/internal/ui/pretty"
)

// Command groups shown in root help.
const (
	groupSync  = "sync"
	groupSetup = "setup"
)

// flagLine splits a pflag usage line into its names, its value type and
// its description.
var flagLine = regexp.MustCompile(`^(\s*)((?:-\w, )?--[\w-]+)( \w+)?(\s{2,})(.*)$`)

const usageTemplate = `{{ heading "Usage:" }}{{ if .Runnable }}
  {{ command .UseLine }}{{ end }}{{ if .HasAvailableSubCommands }}
  {{ command .CommandPath }} [command]{{ end }}{{ if .HasExample }}

{{ heading "Examples:" }}
{{ dim .Example }}{{ end }}{{ if .HasAvailableSubCommands }}{{ $cmds := .Commands }}{{ range $group := .Groups }}

{{ heading $group.Title }}{{ range $cmds }}{{ if and (eq .GroupID $group.ID) .IsAvailableCommand }}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{ end }}{{ end }}{{ end }}{{ if not .AllChildCommandsHaveGroup }}

{{ heading "Other Commands:" }}{{ range $cmds }}{{ if and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")) }}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{ end }}{{ end }}{{ end }}{{ end }}{{ if .HasAvailableLocalFlags }}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}{{ end }}{{ if .HasAvailableInheritedFlags }}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}{{ end }}{{ if .HasAvailableSubCommands }}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.{{ end }}
`

const helpTemplate = `{{ with (or .Long .Short) }}{{ trim . }}

{{ end }}{{ if or .Runnable .HasSubCommands }}{{ usage . }}{{ end }}`

// HelpFormatter renders command help with the same palette as the
// reporters. Color follows the --color flag of the command being helped.
type HelpFormatter struct{}

// NewHelpFormatter creates a help formatter.
func NewHelpFormatter() *HelpFormatter {
	return &HelpFormatter{}
}

// ApplyToCommand installs the formatter on cmd. Subcommands inherit it.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		usage, _ := h.templates(c, c.OutOrStderr())
		if err := usage.Execute(c.OutOrStderr(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		_, help := h.templates(c, c.OutOrStdout())
		if err := help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) templates(cmd *cobra.Command, out io.Writer) (usage, help *template.Template) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(mode, out))

	funcs := template.FuncMap{
		"heading":    styles.SummaryTitle.Render,
		"command":    styles.FilePath.Render,
		"subcommand": styles.Kind.Render,
		"dim":        styles.Dim.Render,
		"flags":      func(set *pflag.FlagSet) string { return flagUsages(styles, set) },
		"rpad":       rpad,
		"trim":       trimTrailingWhitespace,
	}
	usage = template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	funcs["usage"] = func(c *cobra.Command) (string, error) {
		var buf strings.Builder
		err := usage.Execute(&buf, c)
		return buf.String(), err
	}
	help = template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate))
	return usage, help
}

func flagUsages(styles *pretty.Styles, set *pflag.FlagSet) string {
	usages := strings.TrimRight(set.FlagUsages(), "\n")
	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		m := flagLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lines[i] = m[1] + styles.Location.Render(m[2]) + styles.Dim.Render(m[3]) + m[4] + m[5]
	}
	return strings.Join(lines, "\n")
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.Join(lines, "\n")
}
