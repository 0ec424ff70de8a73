package segment

import "testing"

func TestDetectHeadings_Markdown(t *testing.T) {
	text := "# Title\n\nsome body text\n\n## Subsection\n\nmore body\n\n### Deep One\n\ntail"
	headings := DetectHeadings(text)

	if len(headings) != 3 {
		t.Fatalf("expected 3 headings, got %d: %+v", len(headings), headings)
	}

	want := []struct {
		text  string
		level int
	}{
		{"Title", 1},
		{"Subsection", 2},
		{"Deep One", 3},
	}
	for i, w := range want {
		if headings[i].Text != w.text {
			t.Errorf("heading[%d]: expected text %q, got %q", i, w.text, headings[i].Text)
		}
		if headings[i].Level != w.level {
			t.Errorf("heading[%d]: expected level %d, got %d", i, w.level, headings[i].Level)
		}
	}
}

func TestDetectHeadings_PositionsAscend(t *testing.T) {
	text := "intro para here\n\n# One\n\nbody body body\n\n[Bracket Section]\n\nmore body here\n\n## Two\n\ntail text"
	headings := DetectHeadings(text)
	if len(headings) < 3 {
		t.Fatalf("expected at least 3 headings, got %d", len(headings))
	}
	for i := 1; i < len(headings); i++ {
		if headings[i].Pos <= headings[i-1].Pos {
			t.Errorf("positions not strictly increasing: %d then %d", headings[i-1].Pos, headings[i].Pos)
		}
	}
}

func TestDetectHeadings_SingleBracket(t *testing.T) {
	text := "leading paragraph text\n\n[Settings]\n\nthe settings body"
	headings := DetectHeadings(text)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d: %+v", len(headings), headings)
	}
	if headings[0].Text != "Settings" {
		t.Errorf("expected heading %q, got %q", "Settings", headings[0].Text)
	}
	if headings[0].Level != 2 {
		t.Errorf("expected level 2, got %d", headings[0].Level)
	}
	if got := headings[0].End - headings[0].Pos; got != len("[Settings]") {
		t.Errorf("expected span to cover the bracket group only, got width %d", got)
	}
}

func TestDetectHeadings_Parenthesized(t *testing.T) {
	text := "leading paragraph text\n\n(Appendix)\n\nthe appendix body"
	headings := DetectHeadings(text)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d: %+v", len(headings), headings)
	}
	if headings[0].Text != "Appendix" {
		t.Errorf("expected heading %q, got %q", "Appendix", headings[0].Text)
	}
}

func TestDetectHeadings_BracketRunOnTitle(t *testing.T) {
	text := "[Asset,UI][TankWar]In-gameGUIDesign\nSome body text here."
	headings := DetectHeadings(text)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d: %+v", len(headings), headings)
	}
	want := "[Asset,UI][TankWar]In-gameGUIDesign"
	if headings[0].Text != want {
		t.Errorf("expected heading %q, got %q", want, headings[0].Text)
	}
	if headings[0].Level != 2 {
		t.Errorf("expected level 2, got %d", headings[0].Level)
	}
}

func TestDetectHeadings_SingleBracketRunOn(t *testing.T) {
	// Un-spaced trailing text after one bracket token keeps the whole line.
	text := "some preamble paragraph\n\n[Chapter]Overview\nbody text here"
	headings := DetectHeadings(text)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d: %+v", len(headings), headings)
	}
	if headings[0].Text != "[Chapter]Overview" {
		t.Errorf("expected heading %q, got %q", "[Chapter]Overview", headings[0].Text)
	}
}

func TestDetectHeadings_BracketWithSpacedTrailing(t *testing.T) {
	// A space after the bracket token means ordinary text follows, so only
	// the inner token is the heading.
	text := "some preamble paragraph\n\n[Note] this line continues normally\nbody here"
	headings := DetectHeadings(text)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d: %+v", len(headings), headings)
	}
	if headings[0].Text != "Note" {
		t.Errorf("expected heading %q, got %q", "Note", headings[0].Text)
	}
}

func TestDetectHeadings_TitleLine(t *testing.T) {
	text := "Introduction\nthis lowercase body line confirms the title above"
	headings := DetectHeadings(text)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d: %+v", len(headings), headings)
	}
	if headings[0].Text != "Introduction" {
		t.Errorf("expected heading %q, got %q", "Introduction", headings[0].Text)
	}
	if headings[0].Level != 3 {
		t.Errorf("expected level 3, got %d", headings[0].Level)
	}
}

func TestDetectHeadings_TitleLineRejectedByLookahead(t *testing.T) {
	// Next line starts uppercase, so the candidate is treated as prose.
	text := "Introduction\nAnother Capitalized Line follows"
	if headings := DetectHeadings(text); len(headings) != 0 {
		t.Errorf("expected 0 headings, got %d: %+v", len(headings), headings)
	}
}

func TestDetectHeadings_TitleLineWithPunctuationIgnored(t *testing.T) {
	text := "This line ends with a period.\nlowercase continuation here"
	if headings := DetectHeadings(text); len(headings) != 0 {
		t.Errorf("expected 0 headings, got %d: %+v", len(headings), headings)
	}
}

func TestDetectHeadings_BracketDedupNearMarkdown(t *testing.T) {
	// The bracket candidate sits within the 10-char dedup window of the
	// markdown heading and is discarded; the markdown one wins.
	text := "# A\n[BB] x\n\nbody text far below the heading pair"
	headings := DetectHeadings(text)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d: %+v", len(headings), headings)
	}
	if headings[0].Text != "A" {
		t.Errorf("expected markdown heading to win dedup, got %q", headings[0].Text)
	}
}

func TestDetectHeadings_TitleDedupNearMarkdown(t *testing.T) {
	// Title candidate within 20 chars of a markdown heading is discarded.
	text := "# Top Heading\nSubtitle\nlowercase body follows here"
	headings := DetectHeadings(text)
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d: %+v", len(headings), headings)
	}
	if headings[0].Text != "Top Heading" {
		t.Errorf("expected %q, got %q", "Top Heading", headings[0].Text)
	}
}

func TestDetectHeadings_Empty(t *testing.T) {
	if headings := DetectHeadings(""); len(headings) != 0 {
		t.Errorf("expected no headings for empty text, got %d", len(headings))
	}
}

func TestDetectHeadings_NoHeadings(t *testing.T) {
	text := "just a single unbroken paragraph of lowercase prose with no markers at all"
	if headings := DetectHeadings(text); len(headings) != 0 {
		t.Errorf("expected no headings, got %d: %+v", len(headings), DetectHeadings(text))
	}
}
