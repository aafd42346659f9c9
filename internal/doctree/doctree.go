package doctree

import (
	"encoding/json"
	"fmt"
)

// Section is one titled span of document content.
type Section struct {
	ID         string // section-<n>, unique within one extraction run
	Title      string // Cleaned heading text
	Level      int    // Nesting hint used only while building the tree
	Content    string // Body text, possibly empty or a placeholder
	PageNumber int    // Source page (0 if N/A)
	Selected   bool   // Included in assembled context

	Children []int // Arena indices of child sections, in document order
}

// Tree is a document outline stored as an arena of sections.
// Sections are kept in document order; parent->child links are index lists.
type Tree struct {
	Sections []Section
	Roots    []int

	index map[string]int
}

// Len returns the number of sections in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Sections)
}

// Lookup returns the section with the given id.
func (t *Tree) Lookup(id string) (*Section, bool) {
	if t == nil {
		return nil, false
	}
	if t.index == nil {
		t.reindex()
	}
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return &t.Sections[i], true
}

// SetSelected flips the selection flag of a single section. Parents and
// children are left untouched.
func (t *Tree) SetSelected(id string, selected bool) bool {
	s, ok := t.Lookup(id)
	if !ok {
		return false
	}
	s.Selected = selected
	return true
}

// SetAllSelected sets the selection flag on every section.
func (t *Tree) SetAllSelected(selected bool) {
	if t == nil {
		return
	}
	for i := range t.Sections {
		t.Sections[i].Selected = selected
	}
}

// Walk visits sections in pre-order, passing each section's depth (roots are 0).
func (t *Tree) Walk(fn func(s *Section, depth int)) {
	if t == nil {
		return
	}
	var walk func(idx []int, depth int)
	walk = func(idx []int, depth int) {
		for _, i := range idx {
			fn(&t.Sections[i], depth)
			walk(t.Sections[i].Children, depth+1)
		}
	}
	walk(t.Roots, 0)
}

// Clone returns a deep copy, so selection changes on the copy do not leak.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{
		Sections: make([]Section, len(t.Sections)),
		Roots:    append([]int(nil), t.Roots...),
	}
	for i, s := range t.Sections {
		s.Children = append([]int(nil), s.Children...)
		out.Sections[i] = s
	}
	return out
}

func (t *Tree) reindex() {
	t.index = make(map[string]int, len(t.Sections))
	for i, s := range t.Sections {
		t.index[s.ID] = i
	}
}

// Node is the nested, JSON-facing view of a section.
type Node struct {
	ID         string  `json:"id" yaml:"id"`
	Title      string  `json:"title" yaml:"title"`
	Level      int     `json:"level" yaml:"level"`
	Content    string  `json:"content" yaml:"content"`
	PageNumber int     `json:"pageNumber,omitempty" yaml:"page_number,omitempty"`
	Selected   bool    `json:"selected" yaml:"selected"`
	Children   []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Nodes renders the tree as nested nodes.
func (t *Tree) Nodes() []*Node {
	if t == nil {
		return nil
	}
	var build func(idx []int) []*Node
	build = func(idx []int) []*Node {
		if len(idx) == 0 {
			return nil
		}
		out := make([]*Node, 0, len(idx))
		for _, i := range idx {
			s := t.Sections[i]
			out = append(out, &Node{
				ID:         s.ID,
				Title:      s.Title,
				Level:      s.Level,
				Content:    s.Content,
				PageNumber: s.PageNumber,
				Selected:   s.Selected,
				Children:   build(s.Children),
			})
		}
		return out
	}
	return build(t.Roots)
}

// MarshalJSON encodes the tree as a nested section array.
func (t *Tree) MarshalJSON() ([]byte, error) {
	nodes := t.Nodes()
	if nodes == nil {
		nodes = []*Node{}
	}
	return json.Marshal(nodes)
}

// UnmarshalJSON decodes a nested section array back into an arena.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var nodes []*Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return fmt.Errorf("decode sections: %w", err)
	}
	*t = *FromNodes(nodes)
	return nil
}

// FromNodes flattens nested nodes into an arena, preserving pre-order.
func FromNodes(nodes []*Node) *Tree {
	t := &Tree{}
	var add func(nodes []*Node) []int
	add = func(nodes []*Node) []int {
		var idx []int
		for _, n := range nodes {
			if n == nil {
				continue
			}
			i := len(t.Sections)
			t.Sections = append(t.Sections, Section{
				ID:         n.ID,
				Title:      n.Title,
				Level:      n.Level,
				Content:    n.Content,
				PageNumber: n.PageNumber,
				Selected:   n.Selected,
			})
			children := add(n.Children)
			t.Sections[i].Children = children
			idx = append(idx, i)
		}
		return idx
	}
	t.Roots = add(nodes)
	t.reindex()
	return t
}
