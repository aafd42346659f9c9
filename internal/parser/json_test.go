package parser

import (
	"slices"
	"strings"
	"testing"
)

func TestJSONParser_NestedKeysInOrder(t *testing.T) {
	input := `{
  "zeta": {"name": "last key first", "count": 3},
  "alpha": {
    "inner": {"flag": true},
    "note": "hello"
  }
}`
	p := &JSONParser{}
	src, err := p.Parse(strings.NewReader(input), "config.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"1:zeta", "1:alpha", "2:inner"}
	if got := headings(src.Blocks); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if src.Blocks[1].Text != "name: last key first\ncount: 3" {
		t.Errorf("unexpected zeta body %q", src.Blocks[1].Text)
	}
	if !strings.Contains(src.Text, "flag: true") || !strings.Contains(src.Text, "note: hello") {
		t.Errorf("expected scalar lines in text, got %q", src.Text)
	}
}

func TestJSONParser_ArrayOfObjects(t *testing.T) {
	p := &JSONParser{}
	src, err := p.Parse(strings.NewReader(`[{"id": 1}, {"id": 2}]`), "rows.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"1:Item 1", "1:Item 2"}
	if got := headings(src.Blocks); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestJSONParser_ScalarArray(t *testing.T) {
	p := &JSONParser{}
	src, err := p.Parse(strings.NewReader(`{"tags": ["a", "b"]}`), "tags.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Text != `tags: ["a","b"]` {
		t.Errorf("expected compact array, got %q", src.Text)
	}
}

func TestJSONParser_Invalid(t *testing.T) {
	p := &JSONParser{}
	if _, err := p.Parse(strings.NewReader(`{"open": `), "bad.json"); err == nil {
		t.Error("expected error for invalid json")
	}
}
