package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func render(w io.Writer, format string, results []fileOutline) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			writeText(w, r)
		}
		return nil
	}
}

func writeText(w io.Writer, r fileOutline) {
	fmt.Fprintf(w, "%s (%s, strategy %s, %d/%d selected, ~%d tokens)\n",
		r.File, r.Format, r.Strategy, r.Counts.Selected, r.Counts.Total, r.Stats.Tokens)

	r.tree.Walk(func(s *doctree.Section, depth int) {
		mark := " "
		if s.Selected {
			mark = "x"
		}
		line := fmt.Sprintf("%s[%s] %s", strings.Repeat("  ", depth+1), mark, s.Title)
		if s.PageNumber > 0 {
			line += fmt.Sprintf("  p.%d", s.PageNumber)
		}
		if doctree.IsPlaceholder(s.Content) {
			line += "  (not located)"
		}
		fmt.Fprintln(w, line)
	})

	for _, c := range r.Chunks {
		fmt.Fprintf(w, "  chunk %d  %s  (~%d tokens)\n", c.Index, strings.Join(c.Breadcrumb, " > "), c.Tokens)
	}

	if r.Context != "" {
		fmt.Fprintln(w, "\n--- context ---")
		fmt.Fprintln(w, strings.TrimLeft(r.Context, "\n"))
	}
}
