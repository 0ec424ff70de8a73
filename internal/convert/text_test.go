package convert

import (
	"strings"
	"testing"
)

func TestTextConverter_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	c := &TextConverter{}
	got, err := c.Convert(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTextConverter_EmptyInput(t *testing.T) {
	c := &TextConverter{}
	got, err := c.Convert(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestTextConverter_MultipleBlankLines(t *testing.T) {
	// Multiple consecutive blank lines should collapse to one separator.
	input := "Para one.\n\n\n\nPara two."
	c := &TextConverter{}
	got, err := c.Convert(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Para one.\n\nPara two." {
		t.Errorf("expected collapsed paragraphs, got %q", got)
	}
}

func TestTextConverter_WhitespaceOnlyLines(t *testing.T) {
	// Lines with only whitespace should be treated as blank.
	input := "Para one.\n   \nPara two."
	c := &TextConverter{}
	got, err := c.Convert(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Para one.\n\nPara two." {
		t.Errorf("expected two paragraphs, got %q", got)
	}
}

func TestForFile_KnownAndUnknown(t *testing.T) {
	for _, name := range []string{"a.txt", "b.md", "c.csv", "d.html", "e.pdf", "f.docx"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("%s: expected supported", name)
		}
	}
	if _, err := ForFile("archive.zip"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("archive.zip") {
		t.Error("expected .zip to be unsupported")
	}
}
