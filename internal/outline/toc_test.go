package outline

import (
	"strings"
	"testing"
)

func TestDetectTOC_HeaderAndEntries(t *testing.T) {
	lines := []string{
		"Annual Report",
		"",
		"Table of Contents",
		"Introduction ........ 1",
		"Market Analysis ..... 5",
		"Conclusion .......... 20",
		"",
		"Introduction",
		"Intro body.",
	}
	toc, ok := DetectTOC(lines, 100)
	if !ok {
		t.Fatal("expected TOC to be found")
	}
	want := []TOCEntry{
		{Title: "Introduction", Page: 1, Level: 1, Line: 3},
		{Title: "Market Analysis", Page: 5, Level: 1, Line: 4},
		{Title: "Conclusion", Page: 20, Level: 1, Line: 5},
	}
	if len(toc.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(toc.Entries), toc.Entries)
	}
	for i, e := range want {
		if toc.Entries[i] != e {
			t.Errorf("entry %d = %+v, want %+v", i, toc.Entries[i], e)
		}
	}
	if toc.Body != 6 {
		t.Errorf("expected body to start at line 6, got %d", toc.Body)
	}
}

func TestDetectTOC_NotFound(t *testing.T) {
	lines := []string{"Introduction", "Some text here.", "Background", "More text."}
	if _, ok := DetectTOC(lines, 100); ok {
		t.Error("expected no TOC")
	}
}

func TestDetectTOC_HeaderWithoutEntries(t *testing.T) {
	lines := []string{"Contents", "", "This document has no listed sections.", "Nothing else."}
	if _, ok := DetectTOC(lines, 100); ok {
		t.Error("expected a header with zero entries to report not found")
	}
}

func TestDetectTOC_PageBounds(t *testing.T) {
	lines := []string{
		"Contents",
		"Intro ........ 0",
		"Scope ........ 1001",
		"Results ...... 7",
	}
	toc, ok := DetectTOC(lines, 100)
	if !ok {
		t.Fatal("expected TOC to be found")
	}
	if len(toc.Entries) != 1 || toc.Entries[0].Title != "Results" {
		t.Errorf("expected only Results to survive, got %+v", toc.Entries)
	}
}

func TestDetectTOC_MultilingualHeader(t *testing.T) {
	for _, header := range []string{"Table des matières", "SOMMAIRE", "Índice:", "Tabla de contenidos"} {
		lines := []string{header, "Résumé ..... 2", "Méthodes ..... 4"}
		if _, ok := DetectTOC(lines, 100); !ok {
			t.Errorf("expected TOC under header %q", header)
		}
	}
}

func TestDetectTOC_Headerless(t *testing.T) {
	lines := []string{
		"Quarterly Review",
		"Overview ........ 2",
		"Revenue ......... 4",
		"",
		"Outlook ......... 9",
		"Overview",
		"Body.",
	}
	toc, ok := DetectTOC(lines, 100)
	if !ok {
		t.Fatal("expected dot-leader run to be detected")
	}
	if len(toc.Entries) != 3 || toc.Entries[0].Line != 1 {
		t.Errorf("unexpected entries %+v", toc.Entries)
	}
	if toc.Body != 5 {
		t.Errorf("expected body at 5, got %d", toc.Body)
	}
}

func TestDetectTOC_LineCap(t *testing.T) {
	lines := []string{"Contents"}
	for range 150 {
		lines = append(lines, "")
	}
	lines = append(lines, "Late Entry ..... 9")
	if _, ok := DetectTOC(lines, 100); ok {
		t.Error("expected entry beyond the line cap to be ignored")
	}
}

func TestDetectTOC_StopsAfterNonEntry(t *testing.T) {
	lines := []string{
		"Contents",
		"Alpha ..... 1",
		"Beta ...... 2",
		"Gamma ..... 3",
		"Alpha",
		"Delta ..... 4",
	}
	toc, _ := DetectTOC(lines, 100)
	if len(toc.Entries) != 3 {
		t.Errorf("expected block to end at first non-entry line, got %d entries", len(toc.Entries))
	}
}

func TestParseTOCEntry(t *testing.T) {
	tests := []struct {
		line  string
		title string
		page  int
		level int
		ok    bool
	}{
		{"Introduction ..... 1", "Introduction", 1, 1, true},
		{"  Subsection ..... 3", "Subsection", 3, 2, true},
		{"    Detail ..... 4", "Detail", 4, 3, true},
		{"\tDetail ..... 4", "Detail", 4, 3, true},
		{"1.2 Scope ..... 4", "Scope", 4, 2, true},
		{"3. Methods     12", "Methods", 12, 1, true},
		{"• Bulleted ..... 8", "Bulleted", 8, 1, true},
		{"see chapter ..... 4", "", 0, 0, false},
		{"Notes for the ..... 3", "", 0, 0, false},
		{"Zero page ..... 0", "", 0, 0, false},
		{"Figure 10", "", 0, 0, false},
	}
	for _, tt := range tests {
		e, ok := parseTOCEntry(tt.line)
		if ok != tt.ok {
			t.Errorf("parseTOCEntry(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if e.Title != tt.title || e.Page != tt.page || e.Level != tt.level {
			t.Errorf("parseTOCEntry(%q) = %+v, want title %q page %d level %d", tt.line, e, tt.title, tt.page, tt.level)
		}
	}
}

func TestParseTOCEntry_NumberingDepthRaisesLevel(t *testing.T) {
	e, ok := parseTOCEntry("1.1 Background ..... 3")
	if !ok || e.Level != 2 {
		t.Errorf("expected unindented 1.1 entry at level 2, got %+v ok=%v", e, ok)
	}
	e, ok = parseTOCEntry("  Background ..... 3")
	if !ok || e.Level != 2 {
		t.Errorf("expected indented entry at level 2, got %+v ok=%v", e, ok)
	}
	e, ok = parseTOCEntry("    1.1 Results ..... 7")
	if !ok || e.Level != 3 {
		t.Errorf("expected indentation to win over shallower numbering, got %+v ok=%v", e, ok)
	}
}

func TestIsTOCHeader(t *testing.T) {
	if !isTOCHeader("  Table of Contents: ") {
		t.Error("expected header with colon and padding to match")
	}
	if isTOCHeader(strings.Repeat("contents ", 2)) {
		t.Error("expected repeated keyword not to match")
	}
}
