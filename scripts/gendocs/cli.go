package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/leapledger/internal/cli"
)

// generateCLIDocs writes index.md and one page per command, grouped the way
// `leapledger --help` groups them.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	if err := writePage(outDir, "index.md", cliIndex(root)); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}

	for _, cmd := range documented(root) {
		if err := writePage(outDir, cmd.Name()+".md", commandPage(root, cmd)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
	}
	return nil
}

func writePage(dir, name string, w *MarkdownWriter) error {
	if err := os.WriteFile(filepath.Join(dir, name), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated %s", name)
	return nil
}

// documented returns the commands that get a page.
func documented(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || !cmd.IsAvailableCommand() || cmd.GroupID == "" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// inGroup returns the documented commands of group in registration order.
func inGroup(root *cobra.Command, group string) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range documented(root) {
		if cmd.GroupID == group {
			out = append(out, cmd)
		}
	}
	return out
}

func groupTitle(g *cobra.Group) string {
	return strings.TrimSuffix(g.Title, ":")
}

func cliIndex(root *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for LeapLedger")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("LeapLedger keeps a customer billing ledger in an .xlsx or .csv file. Each ledger command loads the file, applies one change and saves the whole file again.")

	w.Header(2, "Quick Start")
	w.CodeBlock("bash", quickStart(root))
	w.Paragraph("Customers are addressed by the number `leapledger list` shows, starting at 1. Numbers shift down after a removal.")

	for _, g := range root.Groups() {
		cmds := inGroup(root, g.ID)
		if len(cmds) == 0 {
			continue
		}
		w.Header(2, groupTitle(g))
		var rows [][]string
		for _, cmd := range cmds {
			link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
			rows = append(rows, []string{link, InlineCode(cmd.UseLine()), cleanDescription(cmd.Short)})
		}
		w.Table([]string{"Command", "Usage", "Description"}, rows)
	}

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Every configuration key has a LEAPLEDGER_ variable. Nested keys use a double underscore. Flags take precedence over the environment.")
	var envRows [][]string
	for _, f := range configFields() {
		envRows = append(envRows, []string{InlineCode(envName(f.Key)), configDescriptions[f.Key]})
	}
	w.Table([]string{"Variable", "Description"}, envRows)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success, including a cancelled removal"},
		{InlineCode("1"), "The operation failed; the reason is printed to stderr"},
	})
	return w
}

// quickStart strings together init, the first example of every ledger
// command and a final list.
func quickStart(root *cobra.Command) string {
	lines := []string{"leapledger init"}
	for _, cmd := range inGroup(root, cli.GroupLedger) {
		if ex := firstExample(cmd); ex != "" {
			lines = append(lines, ex)
		}
	}
	return strings.Join(append(lines, "leapledger list"), "\n")
}

// firstExample returns the first invocation in cmd.Example.
func firstExample(cmd *cobra.Command) string {
	for _, line := range strings.Split(cmd.Example, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "leapledger ") {
			return line
		}
	}
	return ""
}

func commandPage(root, cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())
	if len(cmd.Aliases) > 0 {
		aliases := make([]string, 0, len(cmd.Aliases))
		for _, a := range cmd.Aliases {
			aliases = append(aliases, InlineCode(a))
		}
		w.Paragraph("Also available as " + strings.Join(aliases, ", ") + ".")
	}

	if cmd.HasAvailableSubCommands() {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				rows = append(rows, []string{InlineCode(sub.Name()), cleanDescription(sub.Short)})
			}
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}

	if related := siblings(root, cmd); len(related) > 0 {
		w.Header(2, "See Also")
		w.BulletList(related)
	}
	w.Paragraph("Global options are listed in the [CLI reference](/cli/index).")
	return w
}

// siblings links the other commands in cmd's group.
func siblings(root, cmd *cobra.Command) []string {
	var out []string
	for _, c := range inGroup(root, cmd.GroupID) {
		if c != cmd {
			out = append(out, fmt.Sprintf("[%s](/cli/%s): %s", InlineCode(c.Name()), c.Name(), cleanDescription(c.Short)))
		}
	}
	return out
}

func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = InlineCode("-" + f.Shorthand)
		}
		def := "-"
		if f.DefValue != "" && f.Value.Type() != "bool" {
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// cleanExample strips the indentation cobra examples carry.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
