package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dgallion1/docoutline/internal/outline"
)

// JSONParser handles JSON files. Object keys holding objects become
// headings nested by depth; other values render as "key: value" lines.
// Key order follows the file.
type JSONParser struct{}

func (p *JSONParser) Parse(r io.Reader, filename string) (*outline.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	src := &outline.Source{
		Title:  titleFromFilename(filename),
		Format: outline.FormatJSON,
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return src, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("parse json: invalid document")
	}

	w := &jsonWalker{}
	if err := w.value(data, 0); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	w.flush()
	src.Blocks = w.blocks
	src.Text = blockText(src.Blocks)
	return src, nil
}

type jsonWalker struct {
	blocks  []outline.Block
	pending []byte // scalar lines not yet emitted as a body block
}

func (w *jsonWalker) heading(level int, text string) {
	w.flush()
	w.blocks = append(w.blocks, outline.Block{Level: min(level, 6), Text: text})
}

func (w *jsonWalker) line(s string) {
	if len(w.pending) > 0 {
		w.pending = append(w.pending, '\n')
	}
	w.pending = append(w.pending, s...)
}

func (w *jsonWalker) flush() {
	if len(w.pending) > 0 {
		w.blocks = append(w.blocks, outline.Block{Text: string(w.pending)})
		w.pending = nil
	}
}

// value walks raw at the given nesting depth.
func (w *jsonWalker) value(raw []byte, depth int) error {
	switch raw[0] {
	case '{':
		return w.object(raw, depth)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		if !allObjects(items) {
			w.line(renderJSON(raw))
			return nil
		}
		for i, item := range items {
			w.heading(depth+1, "Item "+strconv.Itoa(i+1))
			if err := w.object(bytes.TrimSpace(item), depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		w.line(renderJSON(raw))
		return nil
	}
}

func (w *jsonWalker) object(raw []byte, depth int) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return err
		}
		v := bytes.TrimSpace(val)
		if len(v) > 0 && (v[0] == '{' || (v[0] == '[' && isObjectArray(v))) {
			w.heading(depth+1, key)
			if err := w.value(v, depth+1); err != nil {
				return err
			}
			continue
		}
		w.line(key + ": " + renderJSON(v))
	}
	_, err := dec.Token()
	return err
}

func isObjectArray(raw []byte) bool {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	return allObjects(items)
}

func allObjects(items []json.RawMessage) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		t := bytes.TrimSpace(it)
		if len(t) == 0 || t[0] != '{' {
			return false
		}
	}
	return true
}

// renderJSON prints strings unquoted and everything else compacted.
func renderJSON(raw []byte) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
