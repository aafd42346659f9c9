package outline

import (
	"regexp"
	"strings"
	"unicode"
)

// Classifier decides whether a single line of text is a heading. It holds
// the mean non-empty line length of the document, which the relative-length
// rules compare against; otherwise Classify depends only on its arguments.
type Classifier struct {
	avgLen float64
}

// NewClassifier measures lines and returns a classifier for that document.
func NewClassifier(lines []string) Classifier {
	var total, n int
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		total += runeLen(t)
		n++
	}
	if n == 0 {
		return Classifier{}
	}
	return Classifier{avgLen: float64(total) / float64(n)}
}

// AverageLength is the mean non-empty line length the classifier compares against.
func (c Classifier) AverageLength() float64 { return c.avgLen }

type lineContext struct {
	line, next, prev string
	n                int // rune length of line
	avg              float64
}

type headingRule struct {
	name  string
	match func(lineContext) int // heading level, or 0
}

// Rules are tried in order; the first match decides the level.
var headingRules = []headingRule{
	{"markdown", ruleMarkdown},
	{"all-caps", ruleAllCaps},
	{"multi-level-number", ruleMultiLevelNumber},
	{"number", ruleNumber},
	{"keyword", ruleKeyword},
	{"roman", ruleRoman},
	{"letter", ruleLetter},
	{"title-case", ruleTitleCase},
	{"colon", ruleColon},
	{"section-word", ruleSectionWord},
	{"short-before-long", ruleShortBeforeLong},
	{"underline", ruleUnderline},
	{"bold", ruleBold},
}

// Classify reports the heading level of line given its neighbours.
// Lines shorter than 3 or longer than 100 characters are never headings.
func (c Classifier) Classify(line, next, prev string) (int, bool) {
	ctx := lineContext{
		line: strings.TrimSpace(line),
		next: strings.TrimSpace(next),
		prev: strings.TrimSpace(prev),
		avg:  c.avgLen,
	}
	ctx.n = runeLen(ctx.line)
	if ctx.n < 3 || ctx.n > 100 {
		return 0, false
	}
	for _, r := range headingRules {
		if level := r.match(ctx); level > 0 {
			return level, true
		}
	}
	return 0, false
}

var (
	markdownRe     = regexp.MustCompile(`^(#{1,6})\s+\S`)
	allCapsRe      = regexp.MustCompile(`^\p{Lu}[\p{Lu}\s&'\-]*$`)
	multiNumberRe  = regexp.MustCompile(`^(\d+(?:\.\d+)+)\.?\s+\p{Lu}`)
	numberRe       = regexp.MustCompile(`^\d+\.?\s+\p{Lu}.{2,}`)
	keywordRe      = regexp.MustCompile(`(?i)^(chapter|section|part|article|appendix)\s+\w+`)
	romanRe        = regexp.MustCompile(`^[IVXLCDM]+\.\s+\p{Lu}`)
	letterRe       = regexp.MustCompile(`^([A-Z]\.\s+\p{Lu}|\([a-z]\)\s+\S)`)
	doubleRuleRe   = regexp.MustCompile(`^={3,}$`)
	singleRuleRe   = regexp.MustCompile(`^(-{3,}|_{3,})$`)
	sectionKeyword = []string{
		"abstract", "introduction", "background", "methodology", "methods",
		"results", "discussion", "conclusion", "conclusions", "summary",
		"executive summary", "overview", "references", "bibliography",
		"acknowledgements", "acknowledgments", "appendix", "preface", "foreword",
		"objectives", "scope", "purpose", "recommendations", "findings",
		"glossary", "limitations", "future work",
	}
)

func ruleMarkdown(c lineContext) int {
	m := markdownRe.FindStringSubmatch(c.line)
	if m == nil {
		return 0
	}
	return len(m[1])
}

func ruleAllCaps(c lineContext) int {
	if c.n > 80 || !allCapsRe.MatchString(c.line) {
		return 0
	}
	letters := 0
	for _, r := range c.line {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 2 {
		return 0
	}
	return 1
}

func ruleMultiLevelNumber(c lineContext) int {
	m := multiNumberRe.FindStringSubmatch(c.line)
	if m == nil {
		return 0
	}
	return min(strings.Count(m[1], ".")+1, 6)
}

func ruleNumber(c lineContext) int {
	if numberRe.MatchString(c.line) {
		return 2
	}
	return 0
}

func ruleKeyword(c lineContext) int {
	if keywordRe.MatchString(c.line) {
		return 1
	}
	return 0
}

func ruleRoman(c lineContext) int {
	if romanRe.MatchString(c.line) {
		return 2
	}
	return 0
}

func ruleLetter(c lineContext) int {
	if letterRe.MatchString(c.line) {
		return 3
	}
	return 0
}

func ruleTitleCase(c lineContext) int {
	if strings.HasSuffix(c.line, ".") || strings.HasSuffix(c.line, ",") {
		return 0
	}
	if float64(c.n) >= 0.7*c.avg {
		return 0
	}
	words := strings.Fields(c.line)
	if len(words) < 2 || len(words) > 12 {
		return 0
	}
	capped := 0
	for _, w := range words {
		if unicode.IsUpper(firstRune(w)) {
			capped++
		}
	}
	if float64(capped)/float64(len(words)) < 0.6 {
		return 0
	}
	return 2
}

func ruleColon(c lineContext) int {
	if !strings.HasSuffix(c.line, ":") || !unicode.IsUpper(firstRune(c.line)) {
		return 0
	}
	if float64(c.n) >= 0.6*c.avg {
		return 0
	}
	return 2
}

func ruleSectionWord(c lineContext) int {
	if !unicode.IsUpper(firstRune(c.line)) || strings.HasSuffix(c.line, ".") || strings.HasSuffix(c.line, ",") {
		return 0
	}
	lower := strings.ToLower(strings.TrimSuffix(c.line, ":"))
	for _, kw := range sectionKeyword {
		if lower == kw || strings.HasPrefix(lower, kw+" ") || strings.HasPrefix(lower, kw+":") {
			return 2
		}
	}
	return 0
}

func ruleShortBeforeLong(c lineContext) int {
	if c.n < 10 || float64(c.n) >= 0.5*c.avg || !unicode.IsUpper(firstRune(c.line)) {
		return 0
	}
	if runeLen(c.next) <= 2*c.n {
		return 0
	}
	return 2
}

func ruleUnderline(c lineContext) int {
	switch {
	case doubleRuleRe.MatchString(c.next):
		return 1
	case singleRuleRe.MatchString(c.next):
		return 2
	}
	return 0
}

func ruleBold(c lineContext) int {
	if _, ok := boldInner(c.line, "**"); ok {
		return 2
	}
	if _, ok := boldInner(c.line, "__"); ok {
		return 2
	}
	return 0
}

// isUnderline reports whether line is a setext underline.
func isUnderline(line string) bool {
	t := strings.TrimSpace(line)
	return doubleRuleRe.MatchString(t) || singleRuleRe.MatchString(t)
}
