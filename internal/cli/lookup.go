package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdsync/internal/ui/pretty"
	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/config"
	"github.com/yaklabco/mdsync/pkg/mdast"
	"github.com/yaklabco/mdsync/pkg/navigate"
)

// ErrNoMatch is returned when a lookup finds no navigable target.
var ErrNoMatch = errors.New("no navigable target")

type lookupFlags struct {
	offset int
	line   int
	node   string
	json   bool
}

// lookupResult is the answer of one mapping.
type lookupResult struct {
	Node     string     `json:"node"`
	Kind     string     `json:"kind"`
	Span     mdast.Span `json:"span"`
	Line     int        `json:"line"`
	Column   int        `json:"column"`
	Strategy string     `json:"strategy,omitempty"`
	Scroll   float64    `json:"scroll"`
	Source   string     `json:"source"`
}

func newLookupCommand() *cobra.Command {
	flags := &lookupFlags{}

	cmd := &cobra.Command{
		Use:   "lookup <file>",
		Short: "Map a source offset to a preview node, or back",
		Long: `Run the navigation mappers once against a document.

With --offset or --line the forward mapper finds the preview block that
contains the source position. With --node the reverse mapper finds the
source range of a preview node, walking up to its nearest navigable
ancestor. Exits with code 1 when nothing matches.

Examples:
  mdsync lookup README.md --offset 120
  mdsync lookup README.md --line 14
  mdsync lookup README.md --node b3.i0 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.offset, "offset", -1, "byte offset in the source")
	cmd.Flags().IntVar(&flags.line, "line", 0, "1-based source line (first column)")
	cmd.Flags().StringVar(&flags.node, "node", "", "preview node ID, e.g. b3 or b3.i0")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("offset", "line", "node")
	cmd.MarkFlagsOneRequired("offset", "line", "node")

	return cmd
}

func runLookup(cmd *cobra.Command, path string, flags *lookupFlags) error {
	ctx := commandContext(cmd)

	cfg, _, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}
	rend, err := newRenderer(cfg).render(ctx, path)
	if err != nil {
		return err
	}
	doc := rend.result.Document

	var node *annotate.Node
	switch {
	case flags.node != "":
		target, ok := rend.tree.Lookup(flags.node)
		if !ok {
			return fmt.Errorf("%w: unknown node %q", ErrNoMatch, flags.node)
		}
		node, _, ok = navigate.Reverse(target)
		if !ok {
			return fmt.Errorf("%w: node %q has no source span", ErrNoMatch, flags.node)
		}
	default:
		offset := flags.offset
		if flags.line > 0 {
			var ok bool
			if offset, ok = doc.Offset(flags.line, 1); !ok {
				return fmt.Errorf("%w: line %d is outside the document", ErrNoMatch, flags.line)
			}
		}
		var ok bool
		if node, ok = navigate.Forward(rend.tree, offset); !ok {
			return fmt.Errorf("%w: offset %d is not inside a resolved block", ErrNoMatch, offset)
		}
	}

	line, col := doc.LineAt(node.Span.Start)
	result := lookupResult{
		Node:     node.ID,
		Kind:     string(node.Kind),
		Span:     node.Span,
		Line:     line,
		Column:   col,
		Strategy: node.Strategy,
		Scroll:   navigate.ScrollFraction(node.Span, doc.Len()),
		Source:   doc.Slice(node.Span),
	}
	return printLookup(cmd.OutOrStdout(), result, flags.json)
}

func printLookup(w io.Writer, result lookupResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	_, err := fmt.Fprintf(w, "%s  %s  %s  %d:%d  %s  %.2f\n  %s\n",
		result.Node, result.Kind, result.Span, result.Line, result.Column,
		result.Strategy, result.Scroll, pretty.Excerpt(result.Source, 0))
	return err
}
