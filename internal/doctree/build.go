package doctree

// Build nests a flat, document-ordered list of sections into a tree.
//
// A section becomes the last child of the nearest still-open section whose
// level is lower than its own; with none open it becomes a root. A jump from
// level 1 straight to level 3 therefore attaches the level-3 section directly
// under the level-1 one.
func Build(flat []Section) *Tree {
	t := &Tree{
		Sections: make([]Section, len(flat)),
	}
	copy(t.Sections, flat)

	var stack []int
	for i := range t.Sections {
		t.Sections[i].Children = nil
		level := t.Sections[i].Level
		if level < 1 {
			level = 1
			t.Sections[i].Level = 1
		}

		for len(stack) > 0 && t.Sections[stack[len(stack)-1]].Level >= level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			t.Roots = append(t.Roots, i)
		} else {
			parent := stack[len(stack)-1]
			t.Sections[parent].Children = append(t.Sections[parent].Children, i)
		}
		stack = append(stack, i)
	}

	t.reindex()
	return t
}
