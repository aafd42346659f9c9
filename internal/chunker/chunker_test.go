package chunker

import (
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func tree(sections ...doctree.Section) *doctree.Tree {
	for i := range sections {
		if sections[i].ID == "" {
			sections[i].ID = "section-" + string(rune('1'+i))
		}
	}
	return doctree.Build(sections)
}

func TestChunkTree_SmallSectionFitsOneChunk(t *testing.T) {
	tr := tree(doctree.Section{Title: "Section", Level: 1, Content: strings.Repeat("word ", 200), Selected: true})

	chunks := ChunkTree(tr, Config{ChunkSize: 1500, ChunkOverlap: 200, MinChunk: 50})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.Index != 0 || c.SectionID != "section-1" {
		t.Errorf("unexpected chunk header %+v", c)
	}
	if c.Tokens != doctree.EstimateTokens(c.Text) {
		t.Errorf("expected token estimate %d, got %d", doctree.EstimateTokens(c.Text), c.Tokens)
	}
}

func TestChunkTree_LargeSectionIsSplit(t *testing.T) {
	large := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)
	tr := tree(doctree.Section{Title: "Big", Level: 1, Content: large, Selected: true})

	cfg := Config{ChunkSize: 500, ChunkOverlap: 50, MinChunk: 10}
	chunks := ChunkTree(tr, cfg)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		if c.Tokens > cfg.ChunkSize*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target", i, c.Tokens)
		}
	}
}

func TestChunkTree_BreadcrumbIncludesDeselectedParent(t *testing.T) {
	tr := tree(
		doctree.Section{Title: "Chapter 1", Level: 1, Content: "intro text", Selected: false},
		doctree.Section{Title: "Section 1.1", Level: 2, Content: "nested text", Selected: true},
	)

	chunks := ChunkTree(tr, DefaultConfig())
	if len(chunks) != 1 {
		t.Fatalf("expected only the selected child, got %d chunks", len(chunks))
	}
	want := []string{"Chapter 1", "Section 1.1"}
	if strings.Join(chunks[0].Breadcrumb, "/") != strings.Join(want, "/") {
		t.Errorf("expected breadcrumb %v, got %v", want, chunks[0].Breadcrumb)
	}
}

func TestChunkTree_SkipsPlaceholders(t *testing.T) {
	tr := tree(
		doctree.Section{Title: "Lost", Level: 1, Content: doctree.Placeholder("Lost"), Selected: true},
		doctree.Section{Title: "Found", Level: 1, Content: "real text", Selected: true},
	)
	chunks := ChunkTree(tr, DefaultConfig())
	if len(chunks) != 1 || chunks[0].Text != "real text" {
		t.Errorf("expected only located content, got %+v", chunks)
	}
}

func TestChunkTree_Empty(t *testing.T) {
	if chunks := ChunkTree(nil, DefaultConfig()); chunks != nil {
		t.Errorf("expected nil for nil tree, got %v", chunks)
	}
	tr := tree(doctree.Section{Title: "Blank", Level: 1, Content: "   ", Selected: true})
	if chunks := ChunkTree(tr, DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected no chunks for blank content, got %v", chunks)
	}
}

func TestPack_Overlap(t *testing.T) {
	units := []string{"one two three four five six", "seven eight nine ten eleven twelve"}
	got := pack(units, "\n\n", 9, 3)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got[1], "five six") {
		t.Errorf("expected second chunk to start with overlap, got %q", got[1])
	}
}

func TestSentences(t *testing.T) {
	got := sentences("First one. Second? Third!  Fourth é.")
	want := []string{"First one.", "Second?", "Third!", "Fourth é."}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}
