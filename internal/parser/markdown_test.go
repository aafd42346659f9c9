package parser

import (
	"slices"
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/outline"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", src.Title)
	}
	if src.Text != input {
		t.Errorf("expected raw source kept as text")
	}

	want := []string{"1:Title", "2:Section A", "3:Subsection A1", "2:Section B"}
	if got := headings(src.Blocks); !slices.Equal(got, want) {
		t.Fatalf("expected headings %v, got %v", want, got)
	}

	res := outline.Extract(*src, outline.DefaultOptions())
	if res.Strategy != outline.StrategyStructure {
		t.Fatalf("expected structure strategy, got %s", res.Strategy)
	}
	tree := res.Tree
	if len(tree.Roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree.Roots))
	}
	h1 := tree.Sections[tree.Roots[0]]
	if h1.Content != "Intro text." {
		t.Errorf("expected h1 content %q, got %q", "Intro text.", h1.Content)
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h1.Children))
	}
	secA := tree.Sections[h1.Children[0]]
	if secA.Title != "Section A" || len(secA.Children) != 1 {
		t.Errorf("expected Section A with one child, got %+v", secA)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := "Just some plain text.\n\nAnother paragraph here."

	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headings(src.Blocks)) != 0 {
		t.Fatalf("expected no headings, got %v", headings(src.Blocks))
	}
	if len(src.Blocks) != 2 || src.Blocks[1].Text != "Another paragraph here." {
		t.Errorf("expected two paragraph blocks, got %+v", src.Blocks)
	}
}

func TestMarkdownParser_CodeBlocksAndLists(t *testing.T) {
	input := "# API Reference\n\nSome intro.\n\n## Endpoints\n\n- users\n- groups\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body []string
	for _, b := range src.Blocks {
		if b.Level == 0 {
			body = append(body, b.Text)
		}
	}
	want := []string{"Some intro.", "users\ngroups", "GET /api/users\nPOST /api/users", "More text after code."}
	if !slices.Equal(body, want) {
		t.Errorf("expected body blocks %q, got %q", want, body)
	}
}

func TestMarkdownParser_InlineMarkupInHeading(t *testing.T) {
	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader("## The *quick* `fox`\n\nbody\n"), "inline.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := headings(src.Blocks); len(got) != 1 || got[0] != "2:The quick fox" {
		t.Errorf("expected plain heading text, got %v", got)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	src, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.Blocks) != 0 {
		t.Errorf("expected 0 blocks for empty input, got %d", len(src.Blocks))
	}
}
