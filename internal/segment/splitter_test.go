package segment

import (
	"fmt"
	"strings"
	"testing"
)

// runeCount is the trivial counter used throughout these tests: one token
// per rune, so budgets are easy to reason about.
func runeCount(s string) int {
	return len([]rune(s))
}

func TestSplit_Empty(t *testing.T) {
	if got := Split("", 100, runeCount); len(got) != 0 {
		t.Errorf("expected no chunks for empty input, got %v", got)
	}
}

func TestSplit_FitsInOneChunk(t *testing.T) {
	text := "short paragraph that fits"
	got := Split(text, 100, runeCount)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(got), got)
	}
	if got[0] != text {
		t.Errorf("expected %q, got %q", text, got[0])
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	text := "first paragraph here\n\nsecond paragraph here\n\nthird paragraph here"
	got := Split(text, 25, runeCount)
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(got), got)
	}
	want := []string{"first paragraph here", "second paragraph here", "third paragraph here"}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("chunk[%d]: expected %q, got %q", i, w, got[i])
		}
	}
}

func TestSplit_PieceExactlyAtBudgetStaysWhole(t *testing.T) {
	// Per-piece overhead makes sub-piece counts sum above the whole, so
	// recursing into an at-budget piece would fragment it.
	fieldsPlusOne := func(s string) int {
		if strings.TrimSpace(s) == "" {
			return 0
		}
		return len(strings.Fields(s)) + 1
	}
	got := Split("aa bb\n\ncc", 3, fieldsPlusOne)
	want := []string{"aa bb", "cc"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("chunk[%d]: expected %q, got %q", i, w, got[i])
		}
	}
}

func TestSplit_RecursesIntoOversizedParagraph(t *testing.T) {
	// One paragraph far above budget forces line, then word level splits.
	text := strings.Repeat("tok ", 50) // 200 chars, no newlines
	got := Split(text, 40, runeCount)
	if len(got) < 4 {
		t.Fatalf("expected several chunks, got %d: %v", len(got), got)
	}
	for i, c := range got {
		if runeCount(c) > 40 {
			t.Errorf("chunk[%d] exceeds budget: %d runes", i, runeCount(c))
		}
	}
}

func TestSplit_OversizedUnsplittableRunEmitted(t *testing.T) {
	// A counter that charges the budget for any non-empty span makes every
	// single rune "oversized"; the engine must emit rather than drop.
	flat := func(s string) int {
		if s == "" {
			return 0
		}
		return 10
	}
	got := Split("ab", 5, flat)
	if len(got) == 0 {
		t.Fatal("expected oversized content to be emitted, got nothing")
	}
	joined := strings.Join(got, "")
	if joined != "ab" {
		t.Errorf("expected all content preserved, got %q", joined)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta. ", 40)
	a := Split(text, 50, runeCount)
	b := Split(text, 50, runeCount)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk[%d] differs between runs", i)
		}
	}
}

func TestSplit_OverlapBound(t *testing.T) {
	const chunkSize = 40
	// Distinct tokens so the shared-affix scan below measures the real
	// overlap instead of matching repeated words.
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&sb, "tok%02d ", i)
	}
	text := sb.String()
	got := Split(text, chunkSize, runeCount)
	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}

	maxOverlap := OverlapTokens(chunkSize)
	for i := 1; i < len(got); i++ {
		shared := sharedAffix(got[i-1], got[i])
		if runeCount(shared) > maxOverlap {
			t.Errorf("chunks %d/%d share %d runes, overlap budget is %d", i-1, i, runeCount(shared), maxOverlap)
		}
	}
}

// sharedAffix returns the longest suffix of a that is a prefix of b.
func sharedAffix(a, b string) string {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	for n := max; n > 0; n-- {
		if strings.HasSuffix(a, b[:n]) {
			return b[:n]
		}
	}
	return ""
}

func TestSplit_CJKPunctuationBoundaries(t *testing.T) {
	// No spaces or newlines: only the ideographic stop can split this.
	text := strings.Repeat("一二三四五六七八九十。", 10)
	got := Split(text, 15, runeCount)
	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d: %v", len(got), got)
	}
	for i, c := range got {
		if runeCount(c) > 15 {
			t.Errorf("chunk[%d] exceeds budget: %d runes (%q)", i, runeCount(c), c)
		}
	}
}

func TestSplit_ContentPreserved(t *testing.T) {
	// Splitting with zero overlap must reconstruct the source text modulo
	// per-chunk whitespace trimming.
	text := "one two three four five six seven eight nine ten"
	got := Split(text, 1000, runeCount)
	if len(got) != 1 || got[0] != text {
		t.Fatalf("expected single intact chunk, got %v", got)
	}
}

func TestOverlapTokens(t *testing.T) {
	cases := []struct {
		size, want int
	}{
		{500, 75},
		{100, 15},
		{10, 1},
		{6, 0},
	}
	for _, c := range cases {
		if got := OverlapTokens(c.size); got != c.want {
			t.Errorf("OverlapTokens(%d): expected %d, got %d", c.size, c.want, got)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("expected 0 tokens for empty string")
	}
	if EstimateTokens("word") < 1 {
		t.Error("expected at least 1 token for non-empty text")
	}
	long := strings.Repeat("word ", 100)
	if EstimateTokens(long) < 100 {
		t.Errorf("expected >= 100 tokens for 100 words, got %d", EstimateTokens(long))
	}
}
