package parser

import (
	"fmt"

	"github.com/dgallion1/docoutline/internal/outline"
)

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

func headings(blocks []outline.Block) []string {
	var out []string
	for _, b := range blocks {
		if b.Level > 0 {
			out = append(out, fmt.Sprintf("%d:%s", b.Level, b.Text))
		}
	}
	return out
}
