package parser

import (
	"testing"

	pdflib "github.com/ledongthuc/pdf"
)

func glyphs(y, size float64, x0 float64, s string) []pdflib.Text {
	out := make([]pdflib.Text, 0, len(s))
	x := x0
	for _, r := range s {
		out = append(out, pdflib.Text{S: string(r), X: x, Y: y, W: size / 2, FontSize: size})
		x += size / 2
	}
	return out
}

func TestMergeGlyphs_RunsAndSpaces(t *testing.T) {
	var in []pdflib.Text
	in = append(in, glyphs(700, 18, 50, "Intro")...)
	in = append(in, glyphs(700, 18, 50+5*9+10, "Part")...) // 10pt gap, above 0.25em
	in = append(in, glyphs(680, 10, 50, "body")...)

	items := mergeGlyphs(in, 3)
	if len(items) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(items), items)
	}
	if items[0].Text != "Intro Part" || items[0].FontSize != 18 || items[0].Page != 3 {
		t.Errorf("unexpected heading run %+v", items[0])
	}
	if items[1].Text != "body" || items[1].Y != 680 {
		t.Errorf("unexpected body run %+v", items[1])
	}
}

func TestMergeGlyphs_FontChangeSplitsRun(t *testing.T) {
	var in []pdflib.Text
	in = append(in, glyphs(700, 12, 0, "ab")...)
	in = append(in, glyphs(700, 16, 12, "cd")...)
	if items := mergeGlyphs(in, 1); len(items) != 2 {
		t.Errorf("expected font change to split runs, got %+v", items)
	}
}

func TestMergeGlyphs_SkipsBlank(t *testing.T) {
	in := []pdflib.Text{{S: " ", Y: 10, FontSize: 12}, {S: "", Y: 10, FontSize: 12}}
	if items := mergeGlyphs(in, 1); len(items) != 0 {
		t.Errorf("expected no runs for blank glyphs, got %+v", items)
	}
}
