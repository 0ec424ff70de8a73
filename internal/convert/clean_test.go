package convert

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world", "hello world"},
		{"keeps whitespace controls", "a\tb\nc\rd", "a\tb\nc\rd"},
		{"drops control chars", "a\x00b\x01c\x1fd", "abcd"},
		{"drops delete", "a\x7fb", "ab"},
		{"drops zero width in controls only", "a​b", "a​b"},
		{"unicode text kept", "日本語テキスト", "日本語テキスト"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanText_InvalidUTF8Dropped(t *testing.T) {
	input := "ok" + string([]byte{0xff, 0xfe}) + "ok"
	got := CleanText(input)
	if got != "okok" {
		t.Errorf("expected invalid bytes removed, got %q", got)
	}
	if !strings.HasPrefix(got, "ok") {
		t.Errorf("expected surrounding text preserved, got %q", got)
	}
}
