package segment

import (
	"regexp"
	"sort"
	"strings"
)

// Heading is a detected section heading candidate. Pos and End are byte
// offsets into the scanned text delimiting the heading's matched span;
// text after End on the same line is body, not heading. Level records
// which heuristic produced the candidate: 1-6 for markdown heading depth,
// 2 for bracket-delimited headings, 3 for bare title lines.
type Heading struct {
	Pos   int
	End   int
	Text  string
	Level int
}

// PDF exports disagree wildly on how headings look, so detection runs
// several independent scanners and merges their candidates by position.
// Registration order decides dedup ties: markdown first, then brackets,
// then title lines.
var (
	markdownHeadingRe = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+)$`)

	// One or more [token] groups at line start, optionally followed by
	// run-on title text, e.g. "[Asset,UI][TankWar]In-gameGUIDesign".
	bracketRunRe = regexp.MustCompile(`(?m)^((?:\[[^\]\n]+\])+)([^\n]*)`)

	parenHeadingRe = regexp.MustCompile(`(?m)^\(([^)\n]+)\)`)

	// Standalone capitalized line of 3-60 letters/digits/spaces.
	titleLineRe = regexp.MustCompile(`(?m)^([A-Z][A-Za-z0-9 ]{1,58}[A-Za-z0-9])[ \t]*$`)
)

// Dedup windows reflect each heuristic's positional tolerance.
const (
	bracketDedupWindow = 10
	titleDedupWindow   = 20
)

// DetectHeadings scans text with every heuristic and returns the
// deduplicated candidates sorted ascending by position. An empty result
// means no heading-like lines were found; callers fall back to
// whole-document chunking.
func DetectHeadings(text string) []Heading {
	var found []Heading

	for _, m := range markdownHeadingRe.FindAllStringSubmatchIndex(text, -1) {
		htext := strings.TrimSpace(text[m[4]:m[5]])
		if htext == "" {
			continue
		}
		found = append(found, Heading{Pos: m[0], End: m[1], Text: htext, Level: m[3] - m[2]})
	}

	for _, m := range bracketRunRe.FindAllStringSubmatchIndex(text, -1) {
		run := text[m[2]:m[3]]
		trailing := text[m[4]:m[5]]

		var htext string
		hend := m[5]
		if strings.Count(run, "[") > 1 || (trailing != "" && !strings.HasPrefix(trailing, " ") && strings.TrimSpace(trailing) != "") {
			// Bracket run with run-on title: the whole line is the heading.
			htext = strings.TrimSpace(run + trailing)
			if len(htext) <= 3 {
				continue
			}
		} else {
			// Single bracket token; the inner text is the heading and
			// anything after the closing bracket is body.
			htext = strings.TrimSpace(run[1 : len(run)-1])
			hend = m[3]
			if len(htext) <= 1 {
				continue
			}
		}
		if nearExisting(found, m[0], bracketDedupWindow) {
			continue
		}
		found = append(found, Heading{Pos: m[0], End: hend, Text: htext, Level: 2})
	}

	for _, m := range parenHeadingRe.FindAllStringSubmatchIndex(text, -1) {
		htext := strings.TrimSpace(text[m[2]:m[3]])
		if len(htext) <= 1 {
			continue
		}
		if nearExisting(found, m[0], bracketDedupWindow) {
			continue
		}
		found = append(found, Heading{Pos: m[0], End: m[1], Text: htext, Level: 2})
	}

	for _, m := range titleLineRe.FindAllStringSubmatchIndex(text, -1) {
		htext := strings.TrimSpace(text[m[2]:m[3]])
		if nearExisting(found, m[0], titleDedupWindow) {
			continue
		}
		if !nextLineLooksLikeBody(text, m[0]) {
			continue
		}
		found = append(found, Heading{Pos: m[0], End: m[1], Text: htext, Level: 3})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Pos < found[j].Pos })
	return found
}

func nearExisting(headings []Heading, pos, window int) bool {
	for _, h := range headings {
		d := h.Pos - pos
		if d < 0 {
			d = -d
		}
		if d < window {
			return true
		}
	}
	return false
}

// nextLineLooksLikeBody implements the title scanner's lookahead: a bare
// capitalized line only counts as a heading when the following line starts
// with lowercase content, not another heading-like line. This is
// intentionally conservative to reduce false positives from capitalized
// prose lines.
func nextLineLooksLikeBody(text string, pos int) bool {
	nl := strings.IndexByte(text[pos:], '\n')
	if nl < 0 {
		return false
	}
	i := pos + nl + 1
	if i >= len(text) {
		return false
	}
	switch c := text[i]; {
	case c == '#' || c == '[' || c == '(':
		return false
	case c >= 'A' && c <= 'Z':
		return false
	}
	return true
}
