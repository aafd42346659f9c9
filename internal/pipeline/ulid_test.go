package pipeline

import (
	"strings"
	"testing"
)

func TestNewDocumentID_Format(t *testing.T) {
	id := NewDocumentID()
	if len(id) != 26 {
		t.Fatalf("expected 26 characters, got %d (%q)", len(id), id)
	}
	for _, c := range id {
		if !strings.ContainsRune(crockford, c) {
			t.Errorf("unexpected character %q in %q", c, id)
		}
	}
}

func TestNewDocumentID_UniqueAndOrdered(t *testing.T) {
	prev := NewDocumentID()
	seen := map[string]bool{prev: true}
	for range 1000 {
		id := NewDocumentID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
		if id <= prev {
			t.Fatalf("expected %s to sort after %s", id, prev)
		}
		prev = id
	}
}

func TestEncodeULID(t *testing.T) {
	var zero [16]byte
	if got := encodeULID(zero); got != strings.Repeat("0", 26) {
		t.Errorf("unexpected zero encoding %q", got)
	}
	var ones [16]byte
	for i := range ones {
		ones[i] = 0xff
	}
	if got := encodeULID(ones); got != "7"+strings.Repeat("Z", 25) {
		t.Errorf("unexpected max encoding %q", got)
	}
}
