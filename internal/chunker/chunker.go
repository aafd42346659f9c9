// Package chunker splits the selected sections of an outline into
// token-bounded pieces that keep their heading path.
package chunker

import (
	"strings"
	"unicode"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Tokens repeated from the previous chunk of the same section.
	MinChunk     int // Chunks estimated below this are dropped.
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     1,
	}
}

// Chunk is a slice of one section's content.
type Chunk struct {
	Index      int      `json:"index" yaml:"index"`
	SectionID  string   `json:"section_id" yaml:"section_id"`
	Breadcrumb []string `json:"breadcrumb" yaml:"breadcrumb"`
	Page       int      `json:"page,omitempty" yaml:"page,omitempty"`
	Text       string   `json:"text" yaml:"text"`
	Tokens     int      `json:"estimated_tokens" yaml:"estimated_tokens"`
}

// ChunkTree chunks every selected section in pre-order. Deselected
// ancestors still appear in the breadcrumb of their selected descendants.
// Placeholder content is skipped.
func ChunkTree(tree *doctree.Tree, cfg Config) []Chunk {
	d := DefaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = d.ChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 0
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = d.MinChunk
	}
	if tree == nil {
		return nil
	}

	var chunks []Chunk
	var walk func(idx []int, path []string)
	walk = func(idx []int, path []string) {
		for _, i := range idx {
			s := &tree.Sections[i]
			crumb := append(path[:len(path):len(path)], s.Title)
			if s.Selected && !doctree.IsPlaceholder(s.Content) {
				for _, part := range splitText(s.Content, cfg.ChunkSize, cfg.ChunkOverlap) {
					tokens := doctree.EstimateTokens(part)
					if tokens < cfg.MinChunk {
						continue
					}
					chunks = append(chunks, Chunk{
						Index:      len(chunks),
						SectionID:  s.ID,
						Breadcrumb: crumb,
						Page:       s.PageNumber,
						Text:       part,
						Tokens:     tokens,
					})
				}
			}
			walk(s.Children, crumb)
		}
	}
	walk(tree.Roots, nil)
	return chunks
}

// splitText packs paragraphs into chunks of about target tokens. Paragraphs
// larger than the target are packed sentence by sentence instead.
func splitText(text string, target, overlap int) []string {
	if doctree.EstimateTokens(text) <= target {
		if t := strings.TrimSpace(text); t != "" {
			return []string{t}
		}
		return nil
	}

	var out []string
	var paras []string
	flush := func() {
		out = append(out, pack(paras, "\n\n", target, overlap)...)
		paras = nil
	}
	for _, p := range paragraphs(text) {
		if doctree.EstimateTokens(p) > target {
			flush()
			out = append(out, pack(sentences(p), " ", target, overlap)...)
			continue
		}
		paras = append(paras, p)
	}
	flush()
	return out
}

// pack joins units with sep until the next unit would pass target. Each new
// chunk starts with the trailing overlap tokens of the one before it.
func pack(units []string, sep string, target, overlap int) []string {
	var out []string
	var cur []string
	tokens := 0
	for _, u := range units {
		n := doctree.EstimateTokens(u)
		if tokens+n > target && len(cur) > 0 {
			prev := strings.Join(cur, sep)
			out = append(out, prev)
			cur, tokens = nil, 0
			if tail := overlapText(prev, overlap); tail != "" {
				cur = append(cur, tail)
				tokens = doctree.EstimateTokens(tail)
			}
		}
		cur = append(cur, u)
		tokens += n
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, sep))
	}
	return out
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sentences splits after '.', '!' or '?' followed by whitespace.
func sentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i, r := range runes {
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// overlapText returns roughly the last n tokens of text.
func overlapText(text string, n int) string {
	words := strings.Fields(text)
	keep := int(float64(n) / 1.33)
	if keep <= 0 || len(words) <= keep {
		return ""
	}
	return strings.Join(words[len(words)-keep:], " ")
}
