// Package help renders command help at the same three tiers as status.
//
// Each tier appends to the one below it, so terse help is always a prefix of
// verbose help and verbose help a prefix of very-verbose help:
//
//   - terse: usage and the grouped command list
//   - verbose: flags per command, global flags and path pattern notes
//   - very-verbose: examples and an overview of the model
package help

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/jonbarril/vgl/internal/verbosity"
)

// Document is the help content of a program, independent of the CLI library.
type Document struct {
	Name    string
	Summary string
	Usage   string

	Groups      []Group
	Commands    []Command
	GlobalFlags []Flag

	// Patterns documents the GLOB arguments shared by commands that accept them.
	Patterns []Pattern

	Overview []Section
}

// Group is a titled set of commands.
type Group struct {
	ID    string
	Title string
}

// Command is one subcommand.
type Command struct {
	Name  string
	Usage string
	Short string
	Long  string
	Group string

	Flags    []Flag
	Examples []Example

	// AcceptsPatterns marks commands taking GLOB arguments.
	AcceptsPatterns bool
}

// Flag is one command-line flag.
type Flag struct {
	Name      string
	Shorthand string
	// Arg is the value placeholder, empty for switches.
	Arg     string
	Usage   string
	Default string
}

// Example is a sample invocation.
type Example struct {
	Command     string
	Description string
}

// Pattern is one row of the glob pattern table.
type Pattern struct {
	Pattern string
	Meaning string
	Matches string
}

// Section is a titled overview paragraph.
type Section struct {
	Title string
	Body  []string
}

// Options are explicit rendering inputs.
type Options struct {
	Color bool
}

// Command returns the named command.
func (d Document) Command(name string) (Command, bool) {
	for _, c := range d.Commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

type styles struct {
	section *color.Color
	group   *color.Color
}

func newStyles(enabled bool) styles {
	s := styles{
		section: color.New(color.FgBlue, color.Bold),
		group:   color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{s.section, s.group} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// Render renders program-level help.
func Render(doc Document, tier verbosity.Tier, opts Options) (string, error) {
	if !tier.Valid() {
		return "", fmt.Errorf("invalid verbosity tier %s", tier)
	}
	st := newStyles(opts.Color)
	var b strings.Builder

	if doc.Summary != "" {
		fmt.Fprintf(&b, "%s - %s\n\n", doc.Name, doc.Summary)
	}
	b.WriteString(st.section.Sprint("Usage:"))
	fmt.Fprintf(&b, "\n  %s\n", doc.Usage)
	writeCommandList(&b, doc, st)

	if tier.AtLeast(verbosity.Verbose) {
		for _, c := range doc.Commands {
			if len(c.Flags) == 0 {
				continue
			}
			b.WriteString("\n")
			b.WriteString(st.section.Sprintf("%s flags:", c.Name))
			b.WriteString("\n")
			writeFlags(&b, c.Flags)
		}
		if len(doc.GlobalFlags) > 0 {
			b.WriteString("\n")
			b.WriteString(st.section.Sprint("Global Flags:"))
			b.WriteString("\n")
			writeFlags(&b, doc.GlobalFlags)
		}
		writePatterns(&b, doc.Patterns, st)
	}

	if tier.AtLeast(verbosity.VeryVerbose) {
		var examples []Example
		for _, c := range doc.Commands {
			examples = append(examples, c.Examples...)
		}
		writeExamples(&b, examples, st)
		if len(doc.Overview) > 0 {
			b.WriteString("\n")
			b.WriteString(st.section.Sprint("Overview:"))
			b.WriteString("\n")
			for i, sec := range doc.Overview {
				if i > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "  %s:\n", sec.Title)
				for _, line := range sec.Body {
					fmt.Fprintf(&b, "    %s\n", line)
				}
			}
		}
	}
	return b.String(), nil
}

// RenderCommand renders help for one command.
func RenderCommand(doc Document, name string, tier verbosity.Tier, opts Options) (string, error) {
	if !tier.Valid() {
		return "", fmt.Errorf("invalid verbosity tier %s", tier)
	}
	c, ok := doc.Command(name)
	if !ok {
		return "", fmt.Errorf("unknown help topic %q", name)
	}
	st := newStyles(opts.Color)
	var b strings.Builder

	if c.Short != "" {
		fmt.Fprintf(&b, "%s\n\n", c.Short)
	}
	b.WriteString(st.section.Sprint("Usage:"))
	fmt.Fprintf(&b, "\n  %s\n", c.Usage)

	if tier.AtLeast(verbosity.Verbose) {
		if c.Long != "" {
			fmt.Fprintf(&b, "\n%s\n", strings.TrimRight(c.Long, "\n"))
		}
		if len(c.Flags) > 0 {
			b.WriteString("\n")
			b.WriteString(st.section.Sprint("Flags:"))
			b.WriteString("\n")
			writeFlags(&b, c.Flags)
		}
		if len(doc.GlobalFlags) > 0 {
			b.WriteString("\n")
			b.WriteString(st.section.Sprint("Global Flags:"))
			b.WriteString("\n")
			writeFlags(&b, doc.GlobalFlags)
		}
		if c.AcceptsPatterns {
			writePatterns(&b, doc.Patterns, st)
		}
	}

	if tier.AtLeast(verbosity.VeryVerbose) {
		writeExamples(&b, c.Examples, st)
	}
	return b.String(), nil
}

func writeCommandList(b *strings.Builder, doc Document, st styles) {
	known := make(map[string]bool, len(doc.Groups))
	for _, g := range doc.Groups {
		known[g.ID] = true
		var names []Command
		for _, c := range doc.Commands {
			if c.Group == g.ID {
				names = append(names, c)
			}
		}
		if len(names) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(st.group.Sprint(g.Title))
		b.WriteString("\n")
		for _, c := range names {
			fmt.Fprintf(b, "  %-11s %s\n", c.Name, c.Short)
		}
	}

	header := false
	for _, c := range doc.Commands {
		if known[c.Group] {
			continue
		}
		if !header {
			b.WriteString("\n")
			b.WriteString(st.section.Sprint("Additional Commands:"))
			b.WriteString("\n")
			header = true
		}
		fmt.Fprintf(b, "  %-11s %s\n", c.Name, c.Short)
	}
}

// flagLabel formats "-C, --dir DIR" or "    --fast".
func flagLabel(f Flag) string {
	label := "    --" + f.Name
	if f.Shorthand != "" {
		label = "-" + f.Shorthand + ", --" + f.Name
	}
	if f.Arg != "" {
		label += " " + f.Arg
	}
	return label
}

func writeFlags(b *strings.Builder, flags []Flag) {
	width := 0
	for _, f := range flags {
		if n := len(flagLabel(f)); n > width {
			width = n
		}
	}
	for _, f := range flags {
		usage := f.Usage
		if f.Default != "" {
			usage += fmt.Sprintf(" (default %s)", f.Default)
		}
		fmt.Fprintf(b, "  %-*s   %s\n", width, flagLabel(f), usage)
	}
}

func writePatterns(b *strings.Builder, patterns []Pattern, st styles) {
	if len(patterns) == 0 {
		return
	}
	pw, mw := 0, 0
	for _, p := range patterns {
		pw = max(pw, len(p.Pattern))
		mw = max(mw, len(p.Meaning))
	}
	b.WriteString("\n")
	b.WriteString(st.section.Sprint("Patterns:"))
	b.WriteString("\n")
	for _, p := range patterns {
		fmt.Fprintf(b, "  %-*s   %-*s   -> %s\n", pw, p.Pattern, mw, p.Meaning, p.Matches)
	}
}

func writeExamples(b *strings.Builder, examples []Example, st styles) {
	if len(examples) == 0 {
		return
	}
	width := 0
	for _, e := range examples {
		width = max(width, len(e.Command))
	}
	b.WriteString("\n")
	b.WriteString(st.section.Sprint("Examples:"))
	b.WriteString("\n")
	for _, e := range examples {
		if e.Description == "" {
			fmt.Fprintf(b, "  %s\n", e.Command)
			continue
		}
		fmt.Fprintf(b, "  %-*s   %s\n", width, e.Command, e.Description)
	}
}

// GlobPatterns documents the path arguments accepted by status.
var GlobPatterns = []Pattern{
	{Pattern: "*.log", Meaning: "files ending in .log", Matches: "app.log, build.log"},
	{Pattern: "file?.txt", Meaning: "single-character wildcard", Matches: "file1.txt, fileA.txt"},
	{Pattern: "**/*.py", Meaning: "any depth below here", Matches: "main.py, lib/util.py"},
	{Pattern: "*.{png,jpg}", Meaning: "alternatives", Matches: "cat.png, dog.jpg"},
	{Pattern: "docs", Meaning: "a path and everything beneath it", Matches: "docs/, docs/guide.md"},
	{Pattern: ":/src", Meaning: "relative to the repository root", Matches: "src/main.go"},
}
