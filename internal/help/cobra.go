package help

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AnnotationPatterns marks a cobra command whose positional arguments are
// path patterns.
const AnnotationPatterns = "vgl.patterns"

// FromCobra builds a document from a cobra command tree. Hidden, deprecated
// and help flags are left out. Overview and Patterns are left for the caller.
func FromCobra(root *cobra.Command) Document {
	doc := Document{
		Name:    root.Name(),
		Summary: root.Short,
		Usage:   root.CommandPath() + " [command]",
	}
	for _, g := range root.Groups() {
		doc.Groups = append(doc.Groups, Group{ID: g.ID, Title: g.Title})
	}
	for _, c := range root.Commands() {
		if c.Hidden || c.Deprecated != "" {
			continue
		}
		doc.Commands = append(doc.Commands, CommandFromCobra(c))
	}
	doc.GlobalFlags = flagsOf(root.PersistentFlags())
	return doc
}

// CommandFromCobra converts one cobra command.
func CommandFromCobra(c *cobra.Command) Command {
	return Command{
		Name:            c.Name(),
		Usage:           c.CommandPath() + strings.TrimPrefix(c.Use, c.Name()),
		Short:           c.Short,
		Long:            c.Long,
		Group:           c.GroupID,
		Flags:           flagsOf(c.LocalNonPersistentFlags()),
		Examples:        parseExamples(c.Example),
		AcceptsPatterns: c.Annotations[AnnotationPatterns] == "true",
	}
}

func flagsOf(fs *pflag.FlagSet) []Flag {
	var out []Flag
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Deprecated != "" || f.Name == "help" {
			return
		}
		arg, usage := pflag.UnquoteUsage(f)
		def := ""
		switch f.Value.Type() {
		case "count":
			arg = ""
		case "bool":
		default:
			if f.DefValue != "" && f.DefValue != "[]" {
				def = f.DefValue
			}
		}
		out = append(out, Flag{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Arg:       arg,
			Usage:     usage,
			Default:   def,
		})
	})
	return out
}

// parseExamples reads cobra's Example text, one invocation per line with an
// optional "# description" suffix.
func parseExamples(text string) []Example {
	var out []Example
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ex := Example{Command: line}
		if i := strings.Index(line, "#"); i >= 0 {
			ex.Command = strings.TrimSpace(line[:i])
			ex.Description = strings.TrimSpace(line[i+1:])
		}
		out = append(out, ex)
	}
	return out
}
