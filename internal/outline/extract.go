package outline

import (
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// run owns the state of a single extraction, including the section id
// counter, so concurrent extractions never share ids.
type run struct {
	next     int
	selected bool
}

func (r *run) sections(drafts []draft) []doctree.Section {
	out := make([]doctree.Section, len(drafts))
	for i, d := range drafts {
		r.next++
		out[i] = doctree.Section{
			ID:         "section-" + strconv.Itoa(r.next),
			Title:      d.Title,
			Level:      d.Level,
			Content:    d.Content,
			PageNumber: d.Page,
			Selected:   r.selected,
		}
	}
	return out
}

// Extract builds the section tree of src. It never fails: input without any
// text yields an empty tree, and text without any recognizable heading yields
// a single section holding everything.
func Extract(src Source, opts Options) Result {
	opts.defaults()
	log := opts.Logger.With("title", src.Title, "format", string(src.Format))

	var lines []textLine
	if len(src.Items) > 0 {
		lines = groupLines(src.Items, opts.LineYTolerance)
	}
	text := src.Text
	if strings.TrimSpace(text) == "" {
		switch {
		case len(lines) > 0:
			text = joinLineText(lines)
		case len(src.Blocks) > 0:
			text = blocksText(src.Blocks)
		}
	}

	r := &run{selected: opts.DefaultSelected}
	if strings.TrimSpace(text) == "" {
		log.Debug("no text to outline")
		return Result{Strategy: StrategyNone, Tree: doctree.Build(nil)}
	}

	strategy, drafts := choose(src, text, lines, opts)
	if len(drafts) == 0 {
		strategy = StrategyWhole
		title := strings.TrimSpace(src.Title)
		if title == "" {
			title = "Document"
		}
		drafts = []draft{{Title: title, Level: 1, Content: strings.TrimSpace(text)}}
	}

	tree := doctree.Build(r.sections(drafts))
	log.Debug("outline extracted", "strategy", string(strategy), "sections", tree.Len())
	return Result{Strategy: strategy, Tree: tree}
}

func choose(src Source, text string, lines []textLine, opts Options) (Strategy, []draft) {
	all := splitLines(text)

	if toc, ok := DetectTOC(all, opts.TOCMaxLines); ok {
		drafts := fillContent(toc, all)
		missing := 0
		for _, d := range drafts {
			if doctree.IsPlaceholder(d.Content) {
				missing++
			}
		}
		opts.Logger.Debug("table of contents found",
			"entries", len(toc.Entries),
			"unmatched", missing,
		)
		return StrategyTOC, drafts
	}

	if len(lines) > 0 {
		if drafts := fontSections(lines, meanFontSize(src.Items), opts.FontHeadingRatio); len(drafts) > 0 {
			return StrategyFont, drafts
		}
	}

	if hasHeadingBlock(src.Blocks) {
		if drafts := segmentBlocks(src.Blocks); len(drafts) > 0 {
			return StrategyStructure, drafts
		}
	}

	return StrategyPattern, segmentLines(all)
}
